package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/supptrivia/backend/internal/judge"
)

const (
	StateLobby    = "lobby"
	StateGame     = "game"
	StateFinished = "finished"

	TeamA = "A"
	TeamB = "B"

	maxPlayers = 8
	maxPerTeam = 4
	maxRounds  = 6
)

const (
	firstTurnDuration = 240 * time.Second
	turnDuration      = 120 * time.Second
)

type Player struct {
	Nickname string `json:"nickname"`
	Team     string `json:"team"`
	Ready    bool   `json:"ready"`
}

// Message is one entry in the room's append-only log. Player and judge
// messages always come in pairs: the proposal, then the ruling on it.
type Message struct {
	Type               string `json:"type"`
	Text               string `json:"text"`
	Nickname           string `json:"nickname,omitempty"`
	Team               string `json:"team,omitempty"`
	Score              *int   `json:"score,omitempty"`
	IsTheAnswerPerfect *bool  `json:"isTheAnswerPerfect,omitempty"`
	TS                 int64  `json:"ts"`
}

const (
	messagePlayer = "player"
	messageJudge  = "judge"
)

// Room is the full game document, stored and pushed to clients as a whole.
type Room struct {
	Code         string    `json:"code"`
	Host         string    `json:"host"`
	Players      []Player  `json:"players"`
	State        string    `json:"state"`
	Created      int64     `json:"created"`
	Started      int64     `json:"started,omitempty"`
	Messages     []Message `json:"messages"`
	CurrentTeam  string    `json:"currentTeam,omitempty"`
	TeamAScore   int       `json:"teamAScore"`
	TeamBScore   int       `json:"teamBScore"`
	CurrentRound int       `json:"currentRound,omitempty"`
	Ticket       string    `json:"ticket,omitempty"`
	// Epoch ms after which the active team forfeits the turn. Zero when no
	// turn is running.
	TurnDeadline int64 `json:"turnDeadline,omitempty"`
}

func (r *Room) player(nickname string) *Player {
	for i := range r.Players {
		if r.Players[i].Nickname == nickname {
			return &r.Players[i]
		}
	}
	return nil
}

// assignTeam balances new joiners between the teams: A on ties, never more
// than four per team. Reports false when both teams are full.
func assignTeam(players []Player) (string, bool) {
	var countA, countB int
	for _, p := range players {
		switch p.Team {
		case TeamA:
			countA++
		case TeamB:
			countB++
		}
	}
	if countA <= countB && countA < maxPerTeam {
		return TeamA, true
	}
	if countB < maxPerTeam {
		return TeamB, true
	}
	return "", false
}

func otherTeam(team string) string {
	if team == TeamA {
		return TeamB
	}
	return TeamA
}

func roundFor(messageCount int) int {
	return messageCount/2 + 1
}

func durationForRound(round int) time.Duration {
	if round == 1 {
		return firstTurnDuration
	}
	return turnDuration
}

// appendPair commits one full round step: the player message and its judge
// ruling, the score delta, the turn flip, the recomputed round and the next
// deadline. Once six rounds are in the log the room is finished.
func (r *Room) appendPair(playerMsg, judgeMsg Message, now time.Time) {
	r.Messages = append(r.Messages, playerMsg, judgeMsg)

	if judgeMsg.Score != nil {
		switch playerMsg.Team {
		case TeamA:
			r.TeamAScore += *judgeMsg.Score
		case TeamB:
			r.TeamBScore += *judgeMsg.Score
		}
	}

	r.CurrentTeam = otherTeam(playerMsg.Team)
	r.CurrentRound = roundFor(len(r.Messages))

	if r.CurrentRound > maxRounds {
		r.State = StateFinished
		r.TurnDeadline = 0
		return
	}
	r.TurnDeadline = now.Add(durationForRound(r.CurrentRound)).UnixMilli()
}

// skipPair builds the message pair for a forfeited turn: empty proposal,
// fixed ruling, zero score. Nickname is empty when the server resolves an
// expired deadline itself.
func skipPair(nickname, team string, now time.Time) (Message, Message) {
	zero := 0
	ts := now.UnixMilli()
	playerMsg := Message{
		Type:     messagePlayer,
		Text:     "",
		Nickname: nickname,
		Team:     team,
		TS:       ts,
	}
	judgeMsg := Message{
		Type:  messageJudge,
		Text:  fmt.Sprintf("Time %s perdeu a rodada", judge.TeamLabel(team)),
		Score: &zero,
		TS:    ts,
	}
	return playerMsg, judgeMsg
}

// transcript pairs each player message with the judge ruling that follows it,
// formatted for the recap prompt.
func transcript(messages []Message) string {
	var out string
	for i := 0; i+1 < len(messages); i += 2 {
		playerMsg := messages[i]
		judgeMsg := messages[i+1]
		score := 0
		if judgeMsg.Score != nil {
			score = *judgeMsg.Score
		}
		out += fmt.Sprintf("\n[%s] %s: %s\nJuiz: %s (Nota: %d)\n",
			judge.TeamLabel(playerMsg.Team), playerMsg.Nickname, playerMsg.Text,
			judgeMsg.Text, score)
	}
	return out
}

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const codeLength = 5

func randomCode() string {
	b := make([]byte, codeLength)
	rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

const maxCodeAttempts = 100

// generateRoomCode draws codes until one is unused. The attempt cap turns a
// broken random source into an error instead of a spin loop.
func generateRoomCode(ctx context.Context, store RoomStore) (string, error) {
	for range maxCodeAttempts {
		code := randomCode()
		exists, err := store.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unused room code after %d attempts", maxCodeAttempts)
}
