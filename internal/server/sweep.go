package server

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// sweeper enforces the server-side turn deadline and the room retention
// policy in the background: expired turns resolve to a skip for the active
// team, rooms untouched for the TTL are deleted.
type sweeper struct {
	store    RoomStore
	broker   Broker
	locks    *roomLocks
	logger   *slog.Logger
	interval time.Duration
	ttl      time.Duration
}

func (s *sweeper) run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	s.resolveExpiredTurns(ctx, time.Now())
	s.purgeStaleRooms(ctx, time.Now())
}

func (s *sweeper) resolveExpiredTurns(ctx context.Context, now time.Time) {
	rooms, err := s.store.ExpiredTurns(ctx, now)
	if err != nil {
		s.logger.Error("listing expired turns", "error", err)
		return
	}

	for _, stale := range rooms {
		s.resolveTurn(ctx, stale.Code, now)
	}
}

func (s *sweeper) resolveTurn(ctx context.Context, code string, now time.Time) {
	unlock := s.locks.lock(code)
	defer unlock()

	// Re-read under the lock: a submit may have landed since the scan.
	room, err := s.store.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("re-reading expired room", "code", code, "error", err)
		}
		return
	}
	if room.State != StateGame || room.TurnDeadline == 0 || room.TurnDeadline > now.UnixMilli() {
		return
	}

	playerMsg, judgeMsg := skipPair("", room.CurrentTeam, now)
	team := room.CurrentTeam
	room.appendPair(playerMsg, judgeMsg, now)

	if err := saveRoom(ctx, s.store, s.broker, room); err != nil {
		s.logger.Error("saving auto-skip", "code", code, "error", err)
		return
	}

	s.logger.Info("turn deadline expired, team skipped",
		"code", code,
		"team", team,
		"round", roundFor(len(room.Messages))-1,
	)
}

func (s *sweeper) purgeStaleRooms(ctx context.Context, now time.Time) {
	codes, err := s.store.StaleCodes(ctx, now.Add(-s.ttl))
	if err != nil {
		s.logger.Error("listing stale rooms", "error", err)
		return
	}

	for _, code := range codes {
		unlock := s.locks.lock(code)
		err := s.store.Delete(ctx, code)
		unlock()

		if err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Error("deleting stale room", "code", code, "error", err)
			continue
		}
		s.locks.drop(code)
		s.logger.Info("stale room deleted", "code", code)
	}
}
