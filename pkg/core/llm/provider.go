package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// StreamProvider is a Provider that can deliver its answer incrementally.
// onChunk is called in order; returning an error from it stops the stream.
type StreamProvider interface {
	Provider
	StreamResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}, onChunk func(string) error) error
}

// Stream uses the provider's streaming API when it has one, and otherwise
// delivers the whole response as a single chunk.
func Stream(ctx context.Context, p Provider, prompt, systemPrompt string, options map[string]interface{}, onChunk func(string) error) error {
	if sp, ok := p.(StreamProvider); ok {
		return sp.StreamResponse(ctx, prompt, systemPrompt, options, onChunk)
	}
	text, err := p.GenerateResponse(ctx, prompt, systemPrompt, options)
	if err != nil {
		return err
	}
	return onChunk(text)
}

// Option keys understood by the providers.
const (
	OptModel       = "model"
	OptAPIKey      = "api_key"
	OptJSON        = "json"
	OptTemperature = "temperature"
	OptMaxTokens   = "max_tokens"
)

func stringOpt(options map[string]interface{}, key, def string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return def
}

func boolOpt(options map[string]interface{}, key string) bool {
	val, _ := options[key].(bool)
	return val
}

func floatOpt(options map[string]interface{}, key string, def float64) float64 {
	switch v := options[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

func intOpt(options map[string]interface{}, key string, def int) int {
	switch v := options[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// defaultHTTPClient bounds every provider call; callers shorten it further
// through ctx.
var defaultHTTPClient = &http.Client{Timeout: 2 * time.Minute}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return defaultHTTPClient
}

// errMissingKey builds the error for an unset credential.
func errMissingKey(provider string, envs ...string) error {
	return fmt.Errorf("%s api key missing: set %v", provider, envs)
}
