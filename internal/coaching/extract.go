package coaching

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Extraction is the outcome of pulling a JSON object out of model output.
type Extraction struct {
	Raw json.RawMessage
	OK  bool
}

// ExtractJSON returns the first usable JSON object in text. It tries the
// whole text, then the span from the first '{' to the last '}' after
// stripping a fenced code block. Arrays and scalars do not count.
func ExtractJSON(text string) Extraction {
	if raw, ok := asObject(text); ok {
		return Extraction{Raw: raw, OK: true}
	}

	block, ok := braceBlock(text)
	if !ok {
		return Extraction{}
	}
	if raw, ok := asObject(block); ok {
		return Extraction{Raw: raw, OK: true}
	}
	return Extraction{}
}

func asObject(s string) (json.RawMessage, bool) {
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 || b[0] != '{' || !json.Valid(b) {
		return nil, false
	}
	return json.RawMessage(b), true
}

func braceBlock(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`")
		text = strings.TrimSpace(strings.TrimPrefix(text, "json"))
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
