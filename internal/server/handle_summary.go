package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type SummaryResponse struct {
	Summary string `json:"summary"`
}

const missingTicketPlaceholder = "(Sem chamado de suporte)"

// handleSummary regenerates the recap on every call; nothing is cached or
// written back to the room.
func handleSummary(logger *slog.Logger, store RoomStore, judge Judge) http.HandlerFunc {
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

		ticket := room.Ticket
		if ticket == "" {
			ticket = missingTicketPlaceholder
		}

		summary, err := judge.Summarize(r.Context(), ticket, transcript(room.Messages))
		if err != nil {
			logger.Error("generating summary", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, msgSummaryFailed)
			return
		}

		writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary})
	}
}
