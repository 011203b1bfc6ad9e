package llm

import (
	"context"
	"net/http"
	"os"
	"strings"
)

// DeepSeekProvider uses DeepSeek's OpenAI-compatible chat API.
type DeepSeekProvider struct {
	Model   string // defaults to deepseek-chat
	BaseURL string
	Client  *http.Client
}

var _ StreamProvider = (*DeepSeekProvider)(nil)

func (p *DeepSeekProvider) endpoint(options map[string]interface{}) (chatEndpoint, error) {
	key := stringOpt(options, OptAPIKey, os.Getenv("DEEPSEEK_API_KEY"))
	if key == "" {
		return chatEndpoint{}, errMissingKey("deepseek", "DEEPSEEK_API_KEY")
	}
	base := p.BaseURL
	if base == "" {
		base = "https://api.deepseek.com"
	}
	return chatEndpoint{name: "deepseek", url: strings.TrimRight(base, "/") + "/chat/completions", apiKey: key, client: p.Client}, nil
}

func (p *DeepSeekProvider) model() string {
	if p.Model != "" {
		return p.Model
	}
	return "deepseek-chat"
}

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	ep, err := p.endpoint(options)
	if err != nil {
		return "", err
	}
	return ep.complete(ctx, newChatRequest(p.model(), prompt, systemPrompt, options, 1.0))
}

func (p *DeepSeekProvider) StreamResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}, onChunk func(string) error) error {
	ep, err := p.endpoint(options)
	if err != nil {
		return err
	}
	return ep.stream(ctx, newChatRequest(p.model(), prompt, systemPrompt, options, 1.0), onChunk)
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}
