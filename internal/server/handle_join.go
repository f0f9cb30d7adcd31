package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type JoinRequest struct {
	Nickname    string `json:"nickname"`
	IsReconnect bool   `json:"isReconnect"`
}

func handleJoinRoom(store RoomStore, broker Broker, locks *roomLocks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgNicknameRequired)
			return
		}
		req.Nickname = strings.TrimSpace(req.Nickname)
		if req.Nickname == "" {
			writeError(w, http.StatusBadRequest, msgNicknameRequired)
			return
		}

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

		existing := room.player(req.Nickname)

		// Reconnects are idempotent: same nickname, same room, no change.
		if req.IsReconnect && existing != nil {
			writeJSON(w, http.StatusOK, room)
			return
		}
		if room.State != StateLobby {
			writeError(w, http.StatusBadRequest, msgGameStarted)
			return
		}
		if existing != nil {
			writeError(w, http.StatusBadRequest, msgNicknameTaken)
			return
		}
		if len(room.Players) >= maxPlayers {
			writeError(w, http.StatusBadRequest, msgRoomFull)
			return
		}

		team, ok := assignTeam(room.Players)
		if !ok {
			writeError(w, http.StatusBadRequest, msgRoomFull)
			return
		}

		room.Players = append(room.Players, Player{Nickname: req.Nickname, Team: team})

		if err := saveRoom(r.Context(), store, broker, room); err != nil {
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}
