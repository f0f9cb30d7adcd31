package server

import "sync"

// roomLocks serializes mutations per room code: every read-modify-write of a
// room document runs under that room's mutex, so concurrent submits (or a
// deadline sweep racing a manual submit) cannot overwrite each other.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the room's mutex and returns the unlock function.
func (l *roomLocks) lock(code string) func() {
	l.mu.Lock()
	m, ok := l.locks[code]
	if !ok {
		m = &sync.Mutex{}
		l.locks[code] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// drop forgets a room's mutex after the room is deleted.
func (l *roomLocks) drop(code string) {
	l.mu.Lock()
	delete(l.locks, code)
	l.mu.Unlock()
}
