package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleEvents streams room snapshots over SSE. The current document is sent
// immediately on connect, then every write pushes the new snapshot.
func handleEvents(store RoomStore, broker Broker) http.HandlerFunc {
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

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch, cancel := broker.Subscribe(code)
		defer cancel()

		if snapshot, err := json.Marshal(room); err == nil {
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", snapshot)
			flusher.Flush()
		}

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
