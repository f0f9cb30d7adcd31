package server

import (
	"context"
	"sync"
)

// Broker fans room snapshots out to realtime subscribers. Publish carries
// the full marshaled room document; subscribers always converge on the
// latest snapshot, intermediate ones may be dropped.
type Broker interface {
	Publish(ctx context.Context, code string, snapshot []byte)
	// Subscribe returns a channel of snapshots for the room and a cancel
	// function that must be called when the subscriber goes away.
	Subscribe(code string) (<-chan []byte, func())
}

// MemoryBroker is the in-process implementation, used for single-instance
// deployments and in tests.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

func (b *MemoryBroker) Subscribe(code string) (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan []byte]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs[code], ch)
		if len(b.subs[code]) == 0 {
			delete(b.subs, code)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *MemoryBroker) Publish(_ context.Context, code string, snapshot []byte) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- snapshot:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
