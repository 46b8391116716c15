// Package relay turns a single-process chat room into a cluster-wide one:
// accepted messages are published to one Redis channel, and every instance
// broadcasts whatever arrives on that channel to its own clients.
package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chatrelay/internal/chat"
)

const publishTimeout = 2 * time.Second

// Bridge implements chat.Publisher on top of Redis pub/sub. The origin
// instance stamps the timestamp before publishing, so every instance stores
// an identical message. Delivery to local clients happens only when the
// message comes back on the channel, which keeps ordering identical across
// instances.
type Bridge struct {
	rdc     *redis.Client
	channel string
	local   *chat.Broadcaster
	now     func() float64
}

func New(rdc *redis.Client, channel string, local *chat.Broadcaster) *Bridge {
	return &Bridge{rdc: rdc, channel: channel, local: local, now: chat.NowSeconds}
}

// Broadcast publishes msg to the Redis channel. If Redis is unreachable the
// message is delivered locally instead, so a broken bridge degrades to
// single-instance behavior rather than silence.
func (b *Bridge) Broadcast(msg chat.Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = b.now()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("relay.encode", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.rdc.Publish(ctx, b.channel, payload).Err(); err != nil {
		zap.L().Warn("relay.publish", zap.Error(err))
		b.local.Broadcast(msg) // Fall back to local delivery.
	}
}

// Run consumes the channel until ctx is cancelled, handing every decodable
// payload to the local broadcaster.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdc.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-pubsub.Channel():
			if !ok { // Redis connection closed.
				return
			}
			b.handlePayload(m.Payload)
		}
	}
}

func (b *Bridge) handlePayload(payload string) {
	var msg chat.Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		zap.L().Warn("relay.decode", zap.Error(err))
		return
	}
	b.local.Broadcast(msg)
}
