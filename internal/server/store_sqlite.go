package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLiteRoomStore keeps each room as a JSONB document, with the state, the
// turn deadline and the last-write time mirrored into columns so the sweep
// can query without unpacking every document.
type SQLiteRoomStore struct {
	db *sql.DB
}

func NewSQLiteRoomStore(db *sql.DB) *SQLiteRoomStore {
	return &SQLiteRoomStore{db: db}
}

func (s *SQLiteRoomStore) Get(ctx context.Context, code string) (Room, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM rooms WHERE code = ?`, code,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, ErrNotFound
	}
	if err != nil {
		return Room{}, err
	}

	var room Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return Room{}, err
	}
	return room, nil
}

func (s *SQLiteRoomStore) Exists(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM rooms WHERE code = ?`, code,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteRoomStore) Put(ctx context.Context, room Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (code, state, updated_ms, turn_deadline_ms, data)
		VALUES (?, ?, ?, ?, jsonb(?))
		ON CONFLICT(code) DO UPDATE SET
			state = excluded.state,
			updated_ms = excluded.updated_ms,
			turn_deadline_ms = excluded.turn_deadline_ms,
			data = excluded.data
	`, room.Code, room.State, time.Now().UnixMilli(), room.TurnDeadline, string(data))
	return err
}

func (s *SQLiteRoomStore) Delete(ctx context.Context, code string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM rooms WHERE code = ?`, code,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteRoomStore) ExpiredTurns(ctx context.Context, now time.Time) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT json(data) FROM rooms
		WHERE state = ? AND turn_deadline_ms > 0 AND turn_deadline_ms <= ?
	`, StateGame, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var room Room
		if err := json.Unmarshal([]byte(data), &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *SQLiteRoomStore) StaleCodes(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code FROM rooms WHERE updated_ms <= ?`, cutoff.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
