package chat

import "sync"

// Registry tracks the set of clients eligible for broadcasts. Register and
// Unregister are the only mutations; both are idempotent and safe from any
// goroutine.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewRegistry() *Registry { return &Registry{clients: map[*Client]struct{}{}} }

func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

// Unregister removes c if present. Double removal is expected (send failure
// and session teardown can race) and is a no-op.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

// Snapshot returns the current members as a fresh slice that later
// membership changes cannot touch.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
