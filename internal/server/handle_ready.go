package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ReadyRequest struct {
	Nickname string `json:"nickname"`
	Ready    *bool  `json:"ready"`
}

// handleReady flips a player's ready flag. Deliberately callable in any
// phase, matching the lobby UI's unready toggle semantics.
func handleReady(store RoomStore, broker Broker, locks *roomLocks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		var req ReadyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgReadyRequired)
			return
		}
		if req.Nickname == "" || req.Ready == nil {
			writeError(w, http.StatusBadRequest, msgReadyRequired)
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

		if p := room.player(req.Nickname); p != nil {
			p.Ready = *req.Ready
		}

		if err := saveRoom(r.Context(), store, broker, room); err != nil {
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}
