package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type MessageRequest struct {
	Nickname string `json:"nickname"`
	Team     string `json:"team"`
	Text     string `json:"text"`
}

type MessageResponse struct {
	OK          bool    `json:"ok"`
	AIMsg       Message `json:"aiMsg"`
	TeamAScore  int     `json:"teamAScore"`
	TeamBScore  int     `json:"teamBScore"`
	CurrentTeam string  `json:"currentTeam"`
}

const missingTicketFallback = "Detalhes do chamado de suporte não encontrados."

func handleMessage(logger *slog.Logger, store RoomStore, broker Broker, judgeSvc Judge, locks *roomLocks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		var req MessageRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgMissingTurnFields)
			return
		}
		if req.Nickname == "" || req.Team == "" {
			writeError(w, http.StatusBadRequest, msgMissingTurnFields)
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
		if room.State != StateGame {
			writeError(w, http.StatusBadRequest, msgGameNotRunning)
			return
		}
		if room.CurrentTeam != req.Team {
			writeError(w, http.StatusBadRequest, msgNotYourTurn)
			return
		}

		now := time.Now()
		var playerMsg, judgeMsg Message

		if strings.TrimSpace(req.Text) == "" {
			// Skip: no judge call, the team forfeits the round.
			playerMsg, judgeMsg = skipPair(req.Nickname, req.Team, now)
		} else {
			ticket := room.Ticket
			if ticket == "" {
				ticket = missingTicketFallback
			}

			verdict, err := judgeSvc.Evaluate(r.Context(), ticket, req.Team, req.Text, room.CurrentRound)
			if err != nil {
				logger.Error("evaluating turn", "code", code, "team", req.Team, "error", err)
				writeError(w, http.StatusInternalServerError, msgJudgeFailed)
				return
			}

			score := verdict.Score
			perfect := verdict.Perfect
			playerMsg = Message{
				Type:     messagePlayer,
				Text:     req.Text,
				Nickname: req.Nickname,
				Team:     req.Team,
				TS:       now.UnixMilli(),
			}
			judgeMsg = Message{
				Type:               messageJudge,
				Text:               verdict.Feedback,
				Score:              &score,
				IsTheAnswerPerfect: &perfect,
				TS:                 now.UnixMilli(),
			}
		}

		room.appendPair(playerMsg, judgeMsg, now)

		if err := saveRoom(r.Context(), store, broker, room); err != nil {
			logger.Error("saving turn", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			OK:          true,
			AIMsg:       judgeMsg,
			TeamAScore:  room.TeamAScore,
			TeamBScore:  room.TeamBScore,
			CurrentTeam: room.CurrentTeam,
		})
	}
}
