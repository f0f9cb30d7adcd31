package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func handleStartGame(logger *slog.Logger, store RoomStore, broker Broker, judge Judge, locks *roomLocks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		unlock := locks.lock(code)
		defer unlock()

		room, err := store.Get(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, msgRoomNotFound)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		if room.State != StateLobby {
			writeError(w, http.StatusBadRequest, msgGameStarted)
			return
		}

		// Ticket generation is fatal for the whole start: nothing is
		// committed and the room stays joinable in the lobby.
		ticket, err := judge.GenerateTicket(r.Context())
		if err != nil {
			logger.Error("generating ticket", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, msgTicketFailed)
			return
		}

		now := time.Now()
		room.State = StateGame
		room.Started = now.UnixMilli()
		room.Messages = []Message{}
		room.CurrentTeam = TeamA
		room.TeamAScore = 0
		room.TeamBScore = 0
		room.CurrentRound = 1
		room.Ticket = ticket
		room.TurnDeadline = now.Add(durationForRound(1)).UnixMilli()

		if err := saveRoom(r.Context(), store, broker, room); err != nil {
			logger.Error("saving started room", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}
