package coaching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nikhilbhutani/emcoach/internal/llm"
)

// Chatter is the slice of llm.Gateway the coach needs.
type Chatter interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Request selects the model and, optionally, an OpenAI-compatible endpoint.
type Request struct {
	Question   string
	Transcript string
	Model      string
	BaseURL    string
}

// Feedback is the model's answer. Structured is nil when no JSON object
// could be extracted; Text is always the raw reply.
type Feedback struct {
	Text       string
	Structured json.RawMessage
	Scores     *Scorecard
	Model      string
}

// Scorecard is the typed view of a structured reply.
type Scorecard struct {
	Scores             map[string]any `json:"scores"`
	TopImprovements    []any          `json:"top_improvements"`
	RewriteSuggestions []any          `json:"rewrite_suggestions"`
	BlameFlags         []any          `json:"blame_or_defensive_flags"`
}

// Metric renders one score for display, "-" when the model left it out.
func (s *Scorecard) Metric(key string) string {
	if s == nil {
		return "-"
	}
	v, ok := s.Scores[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

type Coach struct {
	llm Chatter
}

func New(c Chatter) *Coach {
	return &Coach{llm: c}
}

// Evaluate sends the transcript to the model. Only an upstream failure is
// an error; an unparseable reply is returned with Structured unset.
func (c *Coach) Evaluate(ctx context.Context, req Request) (*Feedback, error) {
	resp, err := c.llm.Chat(ctx, llm.ChatRequest{
		BaseURL: req.BaseURL,
		Model:   req.Model,
		Messages: []llm.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: UserPrompt(req.Question, req.Transcript)},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("coaching: %w", err)
	}

	fb := &Feedback{Text: resp.Content, Model: req.Model}

	ext := ExtractJSON(resp.Content)
	if !ext.OK {
		slog.Warn("could not parse structured scorecard from model output",
			"model", req.Model,
			"response_len", len(resp.Content),
		)
		return fb, nil
	}
	fb.Structured = ext.Raw
	fb.Scores = parseScorecard(ext.Raw)
	return fb, nil
}

// parseScorecard returns nil unless the object carries a "scores" map.
func parseScorecard(raw json.RawMessage) *Scorecard {
	var sc Scorecard
	if err := json.Unmarshal(raw, &sc); err != nil {
		slog.Debug("structured reply does not match scorecard shape", "error", err)
		return nil
	}
	if sc.Scores == nil {
		return nil
	}
	return &sc
}
