package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type CreateRoomRequest struct {
	Nickname string `json:"nickname"`
}

func handleCreateRoom(logger *slog.Logger, store RoomStore, broker Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgNicknameRequired)
			return
		}
		req.Nickname = strings.TrimSpace(req.Nickname)
		if req.Nickname == "" {
			writeError(w, http.StatusBadRequest, msgNicknameRequired)
			return
		}

		code, err := generateRoomCode(r.Context(), store)
		if err != nil {
			logger.Error("generating room code", "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		// The host counts as ready from the start.
		room := Room{
			Code:    code,
			Host:    req.Nickname,
			Players: []Player{{Nickname: req.Nickname, Team: TeamA, Ready: true}},
			State:   StateLobby,
			Created: time.Now().UnixMilli(),
		}

		if err := saveRoom(r.Context(), store, broker, room); err != nil {
			logger.Error("saving new room", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}

func handleGetRoom(store RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		room, err := store.Get(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, msgRoomNotFound)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}
