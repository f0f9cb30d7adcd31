package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Supp Trivia API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Supp Trivia party game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /room
	createRoom, _ := r.NewOperationContext(http.MethodPost, "/room")
	createRoom.SetSummary("Create room")
	createRoom.SetDescription("Creates a room with a fresh 5-character code; the creator becomes the host on team A.")
	createRoom.AddReqStructure(CreateRoomRequest{})
	createRoom.AddRespStructure(Room{}, openapi.WithHTTPStatus(http.StatusOK))
	createRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createRoom)

	// GET /room/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/room/{code}")
	getRoom.SetSummary("Get room")
	getRoom.SetDescription("Returns the current room document.")
	getRoom.AddRespStructure(Room{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// POST /room/{code}/join
	joinRoom, _ := r.NewOperationContext(http.MethodPost, "/room/{code}/join")
	joinRoom.SetSummary("Join room")
	joinRoom.SetDescription("Joins a lobby with team auto-balancing. Reconnects with a known nickname are idempotent.")
	joinRoom.AddReqStructure(JoinRequest{})
	joinRoom.AddRespStructure(Room{}, openapi.WithHTTPStatus(http.StatusOK))
	joinRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	joinRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(joinRoom)

	// POST /room/{code}/ready
	ready, _ := r.NewOperationContext(http.MethodPost, "/room/{code}/ready")
	ready.SetSummary("Mark ready")
	ready.SetDescription("Sets a player's ready flag.")
	ready.AddReqStructure(ReadyRequest{})
	ready.AddRespStructure(Room{}, openapi.WithHTTPStatus(http.StatusOK))
	ready.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	ready.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(ready)

	// POST /room/{code}/start
	start, _ := r.NewOperationContext(http.MethodPost, "/room/{code}/start")
	start.SetSummary("Start game")
	start.SetDescription("Generates the support ticket and transitions the room to the game phase. Fails without committing if ticket generation fails.")
	start.AddRespStructure(Room{}, openapi.WithHTTPStatus(http.StatusOK))
	start.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	start.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	start.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(start)

	// POST /room/{code}/message
	message, _ := r.NewOperationContext(http.MethodPost, "/room/{code}/message")
	message.SetSummary("Submit turn")
	message.SetDescription("Submits the active team's proposal for judging. Empty text forfeits the round with score 0.")
	message.AddReqStructure(MessageRequest{})
	message.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	message.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	message.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	message.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(message)

	// POST /room/{code}/summary
	summary, _ := r.NewOperationContext(http.MethodPost, "/room/{code}/summary")
	summary.SetSummary("Match recap")
	summary.SetDescription("Generates a fresh narrative recap of the match; not cached or persisted.")
	summary.AddRespStructure(SummaryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	summary.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	summary.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(summary)

	// GET /room/{code}/events
	events, _ := r.NewOperationContext(http.MethodGet, "/room/{code}/events")
	events.SetSummary("Room event stream")
	events.SetDescription("Server-Sent Events stream of full room snapshots; the current snapshot is sent on connect.")
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	events.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(events)

	// GET /room/{code}/ws
	ws, _ := r.NewOperationContext(http.MethodGet, "/room/{code}/ws")
	ws.SetSummary("Room WebSocket stream")
	ws.SetDescription("WebSocket stream of full room snapshots, one text frame per write.")
	ws.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	ws.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(ws)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
