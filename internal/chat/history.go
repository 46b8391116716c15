package chat

import "sync"

// DefaultMaxHistory is the replay window used when no capacity is configured.
const DefaultMaxHistory = 50

// History is a bounded window over the most recent messages, replayed to
// every client on join. Appends past capacity evict exactly one oldest
// entry, so length never exceeds the capacity.
type History struct {
	mu   sync.Mutex
	max  int
	msgs []Message
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{max: max}
}

// Append adds msg at the tail, trimming the head if the window overflows.
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.msgs = append(h.msgs, msg)
	if len(h.msgs) > h.max {
		h.msgs = h.msgs[1:]
	}
}

// All returns a copy of the buffered messages in insertion order.
func (h *History) All() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}
