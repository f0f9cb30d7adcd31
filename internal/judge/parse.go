package judge

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// extractJSON returns the content of the first fenced code block, or the
// input unchanged when no fence is present. Models frequently wrap JSON
// payloads in markdown fences despite instructions.
func extractJSON(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

type ticketPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Requested from the model but unused so far; reserved for
	// difficulty-aware prompting.
	Difficulty string `json:"difficulty"`
}

func parseTicket(raw string) (string, error) {
	var p ticketPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &p); err != nil {
		return "", err
	}
	if p.Title == "" && p.Description == "" {
		return "", fmt.Errorf("ticket payload missing title and description")
	}
	return fmt.Sprintf("Título: %s\n\nDescrição: %s", p.Title, p.Description), nil
}

type verdictPayload struct {
	Score              float64 `json:"score"`
	Feedback           string  `json:"feedback"`
	IsTheAnswerPerfect bool    `json:"isTheAnswerPerfect"`
}

// parseVerdict never fails: when the response is not the requested JSON the
// raw text becomes the feedback and the turn scores zero.
func parseVerdict(raw string) Verdict {
	var p verdictPayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &p); err != nil {
		return Verdict{Score: 0, Feedback: strings.TrimSpace(raw)}
	}

	score := int(p.Score)
	if score < 0 {
		score = 0
	}
	return Verdict{
		Score:    score,
		Feedback: p.Feedback,
		Perfect:  p.IsTheAnswerPerfect,
	}
}
