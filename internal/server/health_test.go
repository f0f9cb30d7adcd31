package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/supptrivia/backend/internal/database"
)

func TestHandleHealth(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handleHealth(logger, db, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"sqlite"`) {
		t.Fatalf("body missing sqlite check: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"redis"`) {
		t.Fatalf("redis check present without redis configured: %s", rec.Body.String())
	}
}
