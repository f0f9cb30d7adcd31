package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/supptrivia/backend/internal/judge"
)

// Judge is the generative-text collaborator, injected so tests can swap in
// a fake.
type Judge interface {
	GenerateTicket(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, ticket, team, proposal string, round int) (judge.Verdict, error)
	Summarize(ctx context.Context, ticket, transcript string) (string, error)
}

type Deps struct {
	Store  RoomStore
	Broker Broker
	Judge  Judge

	DB    *sql.DB
	Redis *redis.Client // nil when redis is not configured

	AllowedOrigins []string
	SweepInterval  time.Duration
	RoomTTL        time.Duration
}

type Server struct {
	srv     *http.Server
	logger  *slog.Logger
	sweeper *sweeper
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	locks := newRoomLocks()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)
	// Fixed origin allow-list; requests without an Origin header pass.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	addRoutes(r, logger, deps, locks)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
		sweeper: &sweeper{
			store:    deps.Store,
			broker:   deps.Broker,
			locks:    locks,
			logger:   logger,
			interval: deps.SweepInterval,
			ttl:      deps.RoomTTL,
		},
	}
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Sweep runs the turn-deadline and room-retention loop until ctx is done.
func (s *Server) Sweep(ctx context.Context) error {
	return s.sweeper.run(ctx)
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
