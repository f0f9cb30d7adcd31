package server

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBroker fans snapshots out through redis pub/sub so subscribers on
// other instances see writes made here.
type RedisBroker struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewRedisBroker(rdb *redis.Client, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{rdb: rdb, logger: logger}
}

func roomChannel(code string) string {
	return "room:" + code
}

func (b *RedisBroker) Publish(ctx context.Context, code string, snapshot []byte) {
	if err := b.rdb.Publish(ctx, roomChannel(code), snapshot).Err(); err != nil {
		b.logger.Error("publishing room snapshot", "code", code, "error", err)
	}
}

func (b *RedisBroker) Subscribe(code string) (<-chan []byte, func()) {
	// Subscription outlives the calling request's context; the cancel
	// function tears it down.
	pubsub := b.rdb.Subscribe(context.Background(), roomChannel(code))

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
				// Drop if subscriber is slow.
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			b.logger.Debug("closing room subscription", "code", code, "error", err)
		}
	}
	return out, cancel
}
