// Package judge wraps the generative-text provider used to fabricate support
// tickets, score team proposals and narrate match recaps.
package judge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Verdict is the judge's ruling on a single turn.
type Verdict struct {
	Score    int
	Feedback string
	Perfect  bool
}

type Service struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func New(apiKey, baseURL, model string, timeout time.Duration, logger *slog.Logger) *Service {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Service{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateTicket asks the provider for a fresh fictional support ticket.
// Any provider or parse failure is fatal here: the caller must not start a
// game without a ticket.
func (s *Service) GenerateTicket(ctx context.Context) (string, error) {
	out, err := s.complete(ctx, "ticket", ticketInstructions, ticketPrompt)
	if err != nil {
		return "", err
	}

	ticket, err := parseTicket(out)
	if err != nil {
		return "", fmt.Errorf("parsing ticket response: %w", err)
	}
	return ticket, nil
}

// Evaluate scores a team's proposal for the current round. A provider failure
// is returned as an error; a malformed judge response degrades to the raw
// text as feedback with score 0 so the turn still completes.
func (s *Service) Evaluate(ctx context.Context, ticket, team, proposal string, round int) (Verdict, error) {
	out, err := s.complete(ctx, "evaluate", evaluateInstructions, evaluatePrompt(ticket, team, proposal, round))
	if err != nil {
		return Verdict{}, err
	}
	return parseVerdict(out), nil
}

// Summarize produces the free-text end-of-match recap.
func (s *Service) Summarize(ctx context.Context, ticket, transcript string) (string, error) {
	return s.complete(ctx, "summary", summaryInstructions, summaryPrompt(ticket, transcript))
}

func (s *Service) complete(ctx context.Context, kind, instructions, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	callID := uuid.NewString()
	start := time.Now()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		s.logger.Error("judge call failed",
			"kind", kind,
			"call_id", callID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", fmt.Errorf("judge %s call: %w", kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("judge %s call: empty response", kind)
	}

	s.logger.Info("judge call completed",
		"kind", kind,
		"call_id", callID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}
