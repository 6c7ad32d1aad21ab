package worker

import "fmt"

// DefaultURL is where a station would be reachable if it ran on its own.
func DefaultURL(kind Kind) string {
	switch kind {
	case KindBurger:
		return "http://localhost:5001"
	case KindHotDog:
		return "http://localhost:5002"
	case KindPizza:
		return "http://localhost:5003"
	default:
		return ""
	}
}

// NewRoster builds one worker per kind, in Kinds order, sharing opts.
func NewRoster(opts ...Option) ([]*Worker, error) {
	kinds := Kinds()
	out := make([]*Worker, 0, len(kinds))
	for _, kind := range kinds {
		w, err := New(kind, DefaultURL(kind), opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s worker: %w", kind, err)
		}
		out = append(out, w)
	}
	return out, nil
}
