package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
)

// handleRoomWS is the WebSocket variant of the snapshot stream, for clients
// whose proxies buffer SSE. Same payloads: one text frame per room snapshot.
func handleRoomWS(logger *slog.Logger, store RoomStore, broker Broker) http.HandlerFunc {
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

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "code", code, "error", err)
			return
		}
		defer conn.CloseNow()

		// The client never sends; CloseRead cancels the context when the
		// connection goes away.
		ctx := conn.CloseRead(r.Context())

		ch, cancel := broker.Subscribe(code)
		defer cancel()

		if snapshot, err := json.Marshal(room); err == nil {
			if err := conn.Write(ctx, websocket.MessageText, snapshot); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "code", code, "error", err)
					return
				}
			}
		}
	}
}
