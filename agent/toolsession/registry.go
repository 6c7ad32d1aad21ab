package toolsession

import (
	"context"
	"sync"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/rs/zerolog/log"
)

// Registry lazily creates and hands out the one shared Client.
//
// mu covers only the check-and-create section; once a client exists callers
// invoke it without holding the registry lock.
type Registry struct {
	dialer Dialer
	opts   []ClientOption

	mu     sync.Mutex
	client *Client
}

var _ contractx.ToolGateway = (*Registry)(nil)

func NewRegistry(dialer Dialer, opts ...ClientOption) *Registry {
	return &Registry{
		dialer: dialer,
		opts:   opts,
	}
}

// Acquire returns the shared client, connecting a new one when none exists or
// the cached one is no longer Ready. A failed connect is not cached.
func (r *Registry) Acquire(ctx context.Context) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		if r.client.State() == StateReady {
			return r.client, nil
		}
		log.Info().
			Str("component", "toolsession").
			Str("state", r.client.State().String()).
			Msg("discarding stale tool session client")
		r.client.Disconnect()
		r.client = nil
	}

	log.Info().Str("component", "toolsession").Msg("initializing tool session client")
	c := NewClient(r.dialer, r.opts...)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	r.client = c
	return c, nil
}

func (r *Registry) Invoker(ctx context.Context) (contractx.ToolInvoker, error) {
	c, err := r.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Current returns the cached client without creating one.
func (r *Registry) Current() *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client
}

// Release tears down the shared client and forgets it.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return
	}
	r.client.Disconnect()
	r.client = nil
	log.Debug().Str("component", "toolsession").Msg("tool session registry cleared")
}
