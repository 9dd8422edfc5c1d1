package llm

// ollamaAPIKey is ignored by Ollama but required by the OpenAI client.
const ollamaAPIKey = "ollama"

// NewOllamaProvider returns a provider for Ollama's OpenAI-compatible
// endpoint, e.g. http://localhost:11434/v1.
func NewOllamaProvider(baseURL string) *OpenAIProvider {
	return newCompatProvider("ollama", ollamaAPIKey, baseURL)
}

// NewCompatProvider returns a provider for an arbitrary OpenAI-compatible
// server (LM Studio, vLLM, a remote Ollama, ...).
func NewCompatProvider(baseURL string) *OpenAIProvider {
	return newCompatProvider("openai-compatible", ollamaAPIKey, baseURL)
}
