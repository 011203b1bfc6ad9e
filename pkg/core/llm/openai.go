package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// chatMessage is one turn of an OpenAI-style chat completion.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	Stream         bool                `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// chatEndpoint talks to any OpenAI-compatible /chat/completions endpoint.
type chatEndpoint struct {
	name   string
	url    string
	apiKey string
	client *http.Client
}

func newChatRequest(model, prompt, systemPrompt string, options map[string]interface{}, defTemp float64) chatRequest {
	req := chatRequest{
		Model:       stringOpt(options, OptModel, model),
		Temperature: floatOpt(options, OptTemperature, defTemp),
		MaxTokens:   intOpt(options, OptMaxTokens, 2000),
	}
	if systemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt})
	if boolOpt(options, OptJSON) {
		req.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}
	return req
}

func (e chatEndpoint) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", e.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", e.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	res, err := httpClient(e.client).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s api call failed: %w", e.name, err)
	}
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("%s api returned status %d: %s", e.name, res.StatusCode, strings.TrimSpace(string(raw)))
	}
	return res, nil
}

func (e chatEndpoint) complete(ctx context.Context, body chatRequest) (string, error) {
	body.Stream = false
	res, err := e.post(ctx, body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode %s response: %w", e.name, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%s api error: %s", e.name, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", e.name)
	}
	return out.Choices[0].Message.Content, nil
}

// stream reads server-sent events until the [DONE] marker.
func (e chatEndpoint) stream(ctx context.Context, body chatRequest, onChunk func(string) error) error {
	body.Stream = true
	res, err := e.post(ctx, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}
		var evt chatResponse
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("failed to decode %s stream event: %w", e.name, err)
		}
		if evt.Error != nil {
			return fmt.Errorf("%s api error: %s", e.name, evt.Error.Message)
		}
		for _, c := range evt.Choices {
			if c.Delta.Content == "" {
				continue
			}
			if err := onChunk(c.Delta.Content); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s stream interrupted: %w", e.name, err)
	}
	return nil
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	Model   string // defaults to gpt-4o-mini
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ StreamProvider = (*OpenAIProvider)(nil)

func (p *OpenAIProvider) endpoint(options map[string]interface{}) (chatEndpoint, error) {
	key := stringOpt(options, OptAPIKey, p.APIKey)
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return chatEndpoint{}, errMissingKey("openai", "OPENAI_API_KEY")
	}
	base := p.BaseURL
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return chatEndpoint{name: "openai", url: strings.TrimRight(base, "/") + "/chat/completions", apiKey: key, client: p.Client}, nil
}

func (p *OpenAIProvider) model() string {
	if p.Model != "" {
		return p.Model
	}
	return "gpt-4o-mini"
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	ep, err := p.endpoint(options)
	if err != nil {
		return "", err
	}
	return ep.complete(ctx, newChatRequest(p.model(), prompt, systemPrompt, options, 0.7))
}

func (p *OpenAIProvider) StreamResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}, onChunk func(string) error) error {
	ep, err := p.endpoint(options)
	if err != nil {
		return err
	}
	return ep.stream(ctx, newChatRequest(p.model(), prompt, systemPrompt, options, 0.7), onChunk)
}

func (p *OpenAIProvider) AdaptInstructions(raw string) string {
	return raw
}
