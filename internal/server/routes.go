package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, locks *roomLocks) {
	r.Get("/", handleIndex())
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Supp Trivia API", "/openapi.json", "/docs"))

	r.Route("/room", func(r chi.Router) {
		r.Post("/", handleCreateRoom(logger, deps.Store, deps.Broker))
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", handleGetRoom(deps.Store))
			r.Post("/join", handleJoinRoom(deps.Store, deps.Broker, locks))
			r.Post("/ready", handleReady(deps.Store, deps.Broker, locks))
			r.Post("/start", handleStartGame(logger, deps.Store, deps.Broker, deps.Judge, locks))
			r.Post("/message", handleMessage(logger, deps.Store, deps.Broker, deps.Judge, locks))
			r.Post("/summary", handleSummary(logger, deps.Store, deps.Judge))
			r.Get("/events", handleEvents(deps.Store, deps.Broker))
			r.Get("/ws", handleRoomWS(logger, deps.Store, deps.Broker))
		})
	})
}

func handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Supp Trivia API"))
	}
}
