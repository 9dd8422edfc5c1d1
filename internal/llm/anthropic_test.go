package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhilbhutani/emcoach/internal/config"
)

type messagesCall struct {
	apiKey string
	body   struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
}

func newMessagesServer(t *testing.T, got *messagesCall) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		got.apiKey = r.Header.Get("X-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&got.body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "{\"scores\": {\"overall_100\": 70}}"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 120, "output_tokens": 30}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicChatCompletion(t *testing.T) {
	var got messagesCall
	srv := newMessagesServer(t, &got)

	p := NewAnthropicProvider("sk-ant-test", srv.URL)
	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Model: "claude-3-haiku-20240307",
		Messages: []Message{
			{Role: "system", Content: "rubric"},
			{Role: "user", Content: "transcript"},
		},
		Temperature: 0.2,
		MaxTokens:   900,
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}

	if got.apiKey != "sk-ant-test" {
		t.Errorf("api key = %q", got.apiKey)
	}
	if got.body.MaxTokens != 900 || got.body.Model != "claude-3-haiku-20240307" {
		t.Errorf("request = %+v", got.body)
	}
	if len(got.body.System) != 1 || got.body.System[0].Text != "rubric" {
		t.Errorf("system = %+v", got.body.System)
	}
	if len(got.body.Messages) != 1 || got.body.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.body.Messages)
	}

	if resp.Provider != "anthropic" || resp.ID != "msg_01" || resp.Content != `{"scores": {"overall_100": 70}}` {
		t.Errorf("resp = %+v", resp)
	}
	if resp.InputTokens != 120 || resp.OutputTokens != 30 || resp.TotalTokens != 150 {
		t.Errorf("tokens = %d/%d/%d", resp.InputTokens, resp.OutputTokens, resp.TotalTokens)
	}
}

func TestGatewayRoutesToConfiguredProvider(t *testing.T) {
	t.Run("anthropic", func(t *testing.T) {
		var got messagesCall
		srv := newMessagesServer(t, &got)

		g := NewGateway(config.LLMConfig{
			AnthropicKey:     "sk-ant-test",
			AnthropicBaseURL: srv.URL,
			DefaultProvider:  "anthropic",
		})
		resp, err := g.Chat(context.Background(), ChatRequest{Model: "claude-3-haiku-20240307"})
		if err != nil {
			t.Fatalf("Chat: %v", err)
		}
		if resp.Provider != "anthropic" || got.apiKey != "sk-ant-test" {
			t.Errorf("provider = %s, api key = %q", resp.Provider, got.apiKey)
		}
	})

	t.Run("openai", func(t *testing.T) {
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o-mini",
				"choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}],
				"usage":{"prompt_tokens":5,"completion_tokens":1,"total_tokens":6}}`))
		}))
		defer srv.Close()

		g := NewGateway(config.LLMConfig{
			OpenAIKey:       "sk-real",
			OpenAIBaseURL:   srv.URL + "/v1",
			DefaultProvider: "openai",
		})
		resp, err := g.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
		if err != nil {
			t.Fatalf("Chat: %v", err)
		}
		if auth != "Bearer sk-real" || resp.Provider != "openai" {
			t.Errorf("auth = %q, provider = %s", auth, resp.Provider)
		}
	})
}
