package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/supptrivia/backend/internal/database"
	"github.com/supptrivia/backend/internal/judge"
	"github.com/supptrivia/backend/internal/migrations"
)

type fakeJudge struct {
	ticket    string
	ticketErr error

	verdict   judge.Verdict
	evalErr   error
	evalCalls int

	summary    string
	summaryErr error
}

func (f *fakeJudge) GenerateTicket(_ context.Context) (string, error) {
	return f.ticket, f.ticketErr
}

func (f *fakeJudge) Evaluate(_ context.Context, _, _, _ string, _ int) (judge.Verdict, error) {
	f.evalCalls++
	return f.verdict, f.evalErr
}

func (f *fakeJudge) Summarize(_ context.Context, _, _ string) (string, error) {
	return f.summary, f.summaryErr
}

type testEnv struct {
	router *chi.Mux
	store  *SQLiteRoomStore
	broker *MemoryBroker
	judge  *fakeJudge
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	env := &testEnv{
		store:  NewSQLiteRoomStore(db),
		broker: NewMemoryBroker(),
		judge: &fakeJudge{
			ticket:  "Título: App travando\n\nDescrição: O app fecha sozinho",
			verdict: judge.Verdict{Score: 7, Feedback: "Quase lá, falta detalhar"},
			summary: "Que partida!",
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, Deps{
		Store:  env.store,
		Broker: env.broker,
		Judge:  env.judge,
		DB:     db,
	}, newRoomLocks())
	env.router = r

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createRoom(t *testing.T, nickname string) Room {
	t.Helper()

	w := e.do(t, http.MethodPost, "/room", CreateRoomRequest{Nickname: nickname})
	if w.Code != http.StatusOK {
		t.Fatalf("create room: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var room Room
	if err := json.NewDecoder(w.Body).Decode(&room); err != nil {
		t.Fatalf("decoding room: %v", err)
	}
	return room
}

func (e *testEnv) join(t *testing.T, code, nickname string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/room/"+code+"/join", JoinRequest{Nickname: nickname})
}

func TestCreateRoom(t *testing.T) {
	env := newTestEnv(t)

	room := env.createRoom(t, "Ana")

	if len(room.Code) != codeLength {
		t.Errorf("code = %q, want %d characters", room.Code, codeLength)
	}
	if room.State != StateLobby {
		t.Errorf("state = %q, want lobby", room.State)
	}
	if room.Host != "Ana" {
		t.Errorf("host = %q, want Ana", room.Host)
	}
	if len(room.Players) != 1 || room.Players[0].Team != TeamA || !room.Players[0].Ready {
		t.Errorf("players = %+v, want host ready on team A", room.Players)
	}

	stored, err := env.store.Get(context.Background(), room.Code)
	if err != nil {
		t.Fatalf("room not persisted: %v", err)
	}
	if stored.Host != "Ana" {
		t.Errorf("stored host = %q", stored.Host)
	}
}

func TestCreateRoomMissingNickname(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/room", CreateRoomRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestJoinBalancesTeams(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")

	// Ana (host) is on A. Bo joins with A=1 B=0, so B.
	w := env.join(t, room.Code, "Bo")
	var got Room
	json.NewDecoder(w.Body).Decode(&got)
	if got.Players[1].Team != TeamB {
		t.Errorf("Bo assigned to %q, want B", got.Players[1].Team)
	}

	// A=1 B=1: tie prefers A.
	w = env.join(t, room.Code, "Cy")
	json.NewDecoder(w.Body).Decode(&got)
	if got.Players[2].Team != TeamA {
		t.Errorf("Cy assigned to %q, want A", got.Players[2].Team)
	}
}

func TestJoinFullRoom(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "p0")

	for i := 1; i < maxPlayers; i++ {
		w := env.join(t, room.Code, fmt.Sprintf("p%d", i))
		if w.Code != http.StatusOK {
			t.Fatalf("join %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
	}

	w := env.join(t, room.Code, "late")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ninth join, got %d", w.Code)
	}
}

func TestJoinDuplicateNickname(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")

	w := env.join(t, room.Code, "Ana")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate nickname, got %d", w.Code)
	}
}

func TestJoinReconnectIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")
	env.join(t, room.Code, "Bo")

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/room/"+room.Code+"/join",
			JoinRequest{Nickname: "Bo", IsReconnect: true})
		if w.Code != http.StatusOK {
			t.Fatalf("reconnect %d: expected 200, got %d", i, w.Code)
		}
		var got Room
		json.NewDecoder(w.Body).Decode(&got)
		if len(got.Players) != 2 {
			t.Fatalf("reconnect %d: players = %d, want 2 (unchanged)", i, len(got.Players))
		}
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	env := newTestEnv(t)

	w := env.join(t, "ZZZZZ", "Ana")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetRoom(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")

	w := env.do(t, http.MethodGet, "/room/"+room.Code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got Room
	json.NewDecoder(w.Body).Decode(&got)
	if got.Code != room.Code {
		t.Errorf("code = %q, want %q", got.Code, room.Code)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/room/NOPE1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")
	env.join(t, room.Code, "Bo")

	ready := true
	w := env.do(t, http.MethodPost, "/room/"+room.Code+"/ready",
		ReadyRequest{Nickname: "Bo", Ready: &ready})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got Room
	json.NewDecoder(w.Body).Decode(&got)
	if p := got.player("Bo"); p == nil || !p.Ready {
		t.Errorf("Bo not marked ready: %+v", got.Players)
	}
}

func TestReadyMissingFlag(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, "Ana")

	w := env.do(t, http.MethodPost, "/room/"+room.Code+"/ready",
		map[string]string{"nickname": "Ana"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without ready flag, got %d", w.Code)
	}
}
