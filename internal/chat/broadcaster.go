package chat

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Publisher accepts validated messages for delivery to every connected
// client. Session publishes through this so a relay bridge can sit in front
// of the local Broadcaster.
type Publisher interface {
	Broadcast(msg Message)
}

// Broadcaster appends each message to history and fans it out to every
// registered client. The stamp+append+snapshot triple runs under one lock so
// concurrent broadcasts cannot interleave history writes or act on torn
// membership views; the sends themselves run outside any lock.
type Broadcaster struct {
	mu       sync.Mutex
	registry *Registry
	history  *History
	now      func() float64
}

func NewBroadcaster(registry *Registry, history *History) *Broadcaster {
	return &Broadcaster{registry: registry, history: history, now: NowSeconds}
}

// Broadcast delivers msg to every client registered at this instant. Input
// is trusted; validation belongs to the session. History grows even when
// nobody is connected. Clients whose send fails are dropped from the
// registry once the fan-out has fully settled.
func (b *Broadcaster) Broadcast(msg Message) {
	b.mu.Lock()
	if msg.Timestamp == 0 {
		msg.Timestamp = b.now()
	}
	b.history.Append(msg)
	targets := b.registry.Snapshot()
	b.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("broadcast encode failed", zap.Error(err))
		return
	}

	// One send per goroutine; a stuck peer delays only its own slot.
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, c := range targets {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			errs[i] = c.Send(payload)
		}(i, c)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		c := targets[i]
		b.registry.Unregister(c)
		c.Close()
		zap.L().Warn("dropping unreachable client",
			zap.String("client_id", c.ID()),
			zap.Error(err))
	}
}
