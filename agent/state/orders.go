package state

import (
	"errors"
	"strings"
	"sync"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

var ErrInvalidEntry = errors.New("completed order is missing order id or worker id")

// OrderLog is the append-only record of processed orders, in submission order.
// It lives for one process; nothing is persisted.
type OrderLog struct {
	mu      sync.RWMutex
	entries []contractx.CompletedOrder
	now     func() time.Time
}

func NewOrderLog() *OrderLog {
	return &OrderLog{now: time.Now}
}

// Append records entries atomically and in the given order. Each entry gets
// the next sequence number and, when unset, a completion time.
func (l *OrderLog) Append(entries ...contractx.CompletedOrder) ([]contractx.CompletedOrder, error) {
	for _, e := range entries {
		if strings.TrimSpace(e.OrderID) == "" || strings.TrimSpace(e.ChosenWorkerID) == "" {
			return nil, ErrInvalidEntry
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]contractx.CompletedOrder, 0, len(entries))
	for _, e := range entries {
		e.Seq = len(l.entries) + 1
		if e.CompletedAt.IsZero() {
			e.CompletedAt = l.now()
		}
		if e.Status == "" {
			e.Status = contractx.OrderCompleted
		}
		e.SkillsUsed = append([]string(nil), e.SkillsUsed...)
		l.entries = append(l.entries, e)
		out = append(out, e)
	}
	return out, nil
}

// Entries returns a copy of the log.
func (l *OrderLog) Entries() []contractx.CompletedOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]contractx.CompletedOrder, len(l.entries))
	for i, e := range l.entries {
		e.SkillsUsed = append([]string(nil), e.SkillsUsed...)
		out[i] = e
	}
	return out
}

func (l *OrderLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
