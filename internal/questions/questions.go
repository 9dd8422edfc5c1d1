package questions

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultQuestion is used when no bank is available.
const DefaultQuestion = "Tell me about a time you managed an underperforming engineer."

type Question struct {
	Category string `yaml:"category" json:"category"`
	Prompt   string `yaml:"prompt" json:"prompt"`
}

// Label renders the question as "[category] prompt".
func (q Question) Label() string {
	return fmt.Sprintf("[%s] %s", q.Category, q.Prompt)
}

type Bank struct {
	Questions []Question
}

// Load reads a JSON or YAML question list. A missing or malformed file
// yields an empty bank; the problem is logged, not returned.
func Load(path string) *Bank {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("question bank unavailable", "path", path, "error", err)
		return &Bank{}
	}

	bank, err := Parse(data)
	if err != nil {
		slog.Warn("question bank invalid", "path", path, "error", err)
		return &Bank{}
	}
	return bank
}

// Parse decodes a list of {category, prompt} entries. JSON input is valid YAML.
func Parse(data []byte) (*Bank, error) {
	var qs []Question
	if err := yaml.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	out := qs[:0]
	for _, q := range qs {
		q.Category = strings.TrimSpace(q.Category)
		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Prompt == "" {
			continue
		}
		out = append(out, q)
	}
	return &Bank{Questions: out}, nil
}

func (b *Bank) Empty() bool { return len(b.Questions) == 0 }

func (b *Bank) Labels() []string {
	labels := make([]string, len(b.Questions))
	for i, q := range b.Questions {
		labels[i] = q.Label()
	}
	return labels
}

// Find looks a question up by its label.
func (b *Bank) Find(label string) (Question, bool) {
	for _, q := range b.Questions {
		if q.Label() == label {
			return q, true
		}
	}
	return Question{}, false
}

// Resolve maps user input to question text: a bank label resolves to its
// prompt, any other non-empty text is taken as-is, and empty input falls
// back to the first bank entry or DefaultQuestion.
func (b *Bank) Resolve(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		if !b.Empty() {
			return b.Questions[0].Prompt
		}
		return DefaultQuestion
	}
	if q, ok := b.Find(input); ok {
		return q.Prompt
	}
	return input
}
