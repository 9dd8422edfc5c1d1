// Package stt provides speech-to-text backends that produce timed transcripts.
package stt

import (
	"fmt"

	"github.com/nikhilbhutani/emcoach/internal/config"
	"github.com/nikhilbhutani/emcoach/internal/transcript"
)

// Provider is a speech-to-text backend handle. It is created once by the
// caller, injected where transcription is needed and released with Close.
type Provider interface {
	transcript.Transcriber
	Name() string
	Close() error
}

// New initializes the backend selected by cfg.Backend.
func New(cfg config.STTConfig) (Provider, error) {
	switch cfg.Backend {
	case "", "openai":
		if cfg.OpenAIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("stt: OPENAI_API_KEY is required for the hosted Whisper API")
		}
		return NewOpenAISTT(OpenAISTTConfig{
			APIKey:   cfg.OpenAIKey,
			BaseURL:  cfg.OpenAIBaseURL,
			Model:    cfg.OpenAIModel,
			Language: cfg.Language,
		}), nil
	case "local":
		return NewLocalSTT(LocalSTTConfig{BaseURL: cfg.LocalBaseURL, Language: cfg.Language}), nil
	default:
		return nil, fmt.Errorf("stt: unknown backend %q", cfg.Backend)
	}
}
