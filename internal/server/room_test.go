package server

import (
	"strings"
	"testing"
	"time"
)

func TestAssignTeamPrefersAOnTie(t *testing.T) {
	team, ok := assignTeam(nil)
	if !ok || team != TeamA {
		t.Fatalf("assignTeam(empty) = %q, %v; want A", team, ok)
	}

	players := []Player{
		{Nickname: "Ana", Team: TeamA},
		{Nickname: "Bo", Team: TeamB},
	}
	team, ok = assignTeam(players)
	if !ok || team != TeamA {
		t.Fatalf("assignTeam(1v1) = %q, %v; want A", team, ok)
	}
}

func TestAssignTeamFillsB(t *testing.T) {
	// A has 2, B has 0: B gets the next player.
	players := []Player{
		{Nickname: "Ana", Team: TeamA},
		{Nickname: "Bo", Team: TeamA},
	}
	team, ok := assignTeam(players)
	if !ok || team != TeamB {
		t.Fatalf("assignTeam(2v0) = %q, %v; want B", team, ok)
	}
}

func TestAssignTeamNeverExceedsCap(t *testing.T) {
	var players []Player
	for i := 0; i < maxPlayers; i++ {
		team, ok := assignTeam(players)
		if !ok {
			t.Fatalf("assignTeam failed at player %d", i)
		}
		players = append(players, Player{Team: team})

		var countA, countB int
		for _, p := range players {
			if p.Team == TeamA {
				countA++
			} else {
				countB++
			}
		}
		if countA > maxPerTeam || countB > maxPerTeam {
			t.Fatalf("team cap exceeded after %d joins: A=%d B=%d", i+1, countA, countB)
		}
	}

	if _, ok := assignTeam(players); ok {
		t.Fatal("assignTeam succeeded with both teams full")
	}
}

func TestRoundFor(t *testing.T) {
	cases := []struct{ messages, round int }{
		{0, 1},
		{2, 2},
		{4, 3},
		{10, 6},
		{12, 7},
	}
	for _, c := range cases {
		if got := roundFor(c.messages); got != c.round {
			t.Errorf("roundFor(%d) = %d, want %d", c.messages, got, c.round)
		}
	}
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := randomCode()
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestAppendPairFlipsTurnAndScores(t *testing.T) {
	now := time.Now()
	room := Room{
		State:        StateGame,
		CurrentTeam:  TeamA,
		CurrentRound: 1,
	}

	score := 8
	playerMsg := Message{Type: messagePlayer, Text: "reiniciar", Team: TeamA, TS: now.UnixMilli()}
	judgeMsg := Message{Type: messageJudge, Text: "boa", Score: &score, TS: now.UnixMilli()}
	room.appendPair(playerMsg, judgeMsg, now)

	if room.CurrentTeam != TeamB {
		t.Errorf("currentTeam = %q, want B", room.CurrentTeam)
	}
	if room.TeamAScore != 8 || room.TeamBScore != 0 {
		t.Errorf("scores = %d/%d, want 8/0", room.TeamAScore, room.TeamBScore)
	}
	if room.CurrentRound != 2 {
		t.Errorf("currentRound = %d, want 2", room.CurrentRound)
	}
	if len(room.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(room.Messages))
	}
	if room.TurnDeadline <= now.UnixMilli() {
		t.Error("turn deadline not pushed into the future")
	}
}

func TestAppendPairFinishesAfterSixRounds(t *testing.T) {
	now := time.Now()
	room := Room{
		State:        StateGame,
		CurrentTeam:  TeamA,
		CurrentRound: 1,
	}

	for i := 0; i < maxRounds; i++ {
		playerMsg, judgeMsg := skipPair("", room.CurrentTeam, now)
		room.appendPair(playerMsg, judgeMsg, now)
	}

	if room.State != StateFinished {
		t.Errorf("state = %q after %d rounds, want finished", room.State, maxRounds)
	}
	if room.TurnDeadline != 0 {
		t.Errorf("turnDeadline = %d on finished room, want 0", room.TurnDeadline)
	}
	if len(room.Messages) != maxRounds*2 {
		t.Errorf("messages = %d, want %d", len(room.Messages), maxRounds*2)
	}
}

func TestSkipPairScoresZero(t *testing.T) {
	now := time.Now()
	playerMsg, judgeMsg := skipPair("Ana", TeamA, now)

	if playerMsg.Text != "" || playerMsg.Team != TeamA || playerMsg.Type != messagePlayer {
		t.Errorf("unexpected player message: %+v", playerMsg)
	}
	if judgeMsg.Score == nil || *judgeMsg.Score != 0 {
		t.Errorf("skip judge score = %v, want 0", judgeMsg.Score)
	}
	if judgeMsg.Text != "Time Azul perdeu a rodada" {
		t.Errorf("skip judge text = %q", judgeMsg.Text)
	}

	_, judgeMsgB := skipPair("Bo", TeamB, now)
	if judgeMsgB.Text != "Time Laranja perdeu a rodada" {
		t.Errorf("skip judge text for B = %q", judgeMsgB.Text)
	}
}

func TestTranscriptPairsMessages(t *testing.T) {
	score := 6
	messages := []Message{
		{Type: messagePlayer, Text: "trocar a senha", Nickname: "Ana", Team: TeamA},
		{Type: messageJudge, Text: "quase", Score: &score},
		{Type: messagePlayer, Text: "limpar o cache", Nickname: "Bo", Team: TeamB},
		{Type: messageJudge, Text: "melhor"},
	}

	got := transcript(messages)
	for _, want := range []string{"[Azul] Ana: trocar a senha", "Juiz: quase (Nota: 6)", "[Laranja] Bo: limpar o cache", "(Nota: 0)"} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q in %q", want, got)
		}
	}
}
