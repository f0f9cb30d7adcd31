package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// RoomStore is the keyed room-document collection: whole-document reads and
// last-writer-wins whole-document writes, plus the scan queries the
// background sweep needs.
type RoomStore interface {
	Get(ctx context.Context, code string) (Room, error)
	Exists(ctx context.Context, code string) (bool, error)
	Put(ctx context.Context, room Room) error
	Delete(ctx context.Context, code string) error

	// ExpiredTurns returns in-game rooms whose turn deadline has passed.
	ExpiredTurns(ctx context.Context, now time.Time) ([]Room, error)
	// StaleCodes returns codes of rooms not written to since cutoff.
	StaleCodes(ctx context.Context, cutoff time.Time) ([]string, error)
}

// saveRoom persists the document and pushes the new snapshot to every
// subscriber, the write-then-notify contract every mutation goes through.
func saveRoom(ctx context.Context, store RoomStore, broker Broker, room Room) error {
	if err := store.Put(ctx, room); err != nil {
		return err
	}
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	broker.Publish(ctx, room.Code, data)
	return nil
}
