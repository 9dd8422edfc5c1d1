package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/emcoach/internal/questions"
)

type QuestionHandler struct {
	bank *questions.Bank
}

func NewQuestionHandler(bank *questions.Bank) *QuestionHandler {
	return &QuestionHandler{bank: bank}
}

type questionView struct {
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
	Label    string `json:"label"`
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]questionView, len(h.bank.Questions))
	for i, q := range h.bank.Questions {
		out[i] = questionView{Category: q.Category, Prompt: q.Prompt, Label: q.Label()}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": out,
		"count":     len(out),
		"default":   h.bank.Resolve(""),
	})
}
