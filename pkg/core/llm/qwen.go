package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// QwenProvider calls Alibaba DashScope's native text-generation API.
type QwenProvider struct {
	Model   string // defaults to qwen-max
	BaseURL string
	Client  *http.Client
}

var _ Provider = (*QwenProvider)(nil)

type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []chatMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat   string              `json:"result_format"`
		Temperature    float64             `json:"temperature"`
		ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	} `json:"parameters"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
		// Some endpoints answer with plain text instead of choices.
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (p *QwenProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := stringOpt(options, OptAPIKey, os.Getenv("DASHSCOPE_API_KEY"))
	if apiKey == "" {
		apiKey = os.Getenv("QWEN_API_KEY")
	}
	if apiKey == "" {
		return "", errMissingKey("qwen", "DASHSCOPE_API_KEY", "QWEN_API_KEY")
	}

	model := p.Model
	if model == "" {
		model = "qwen-max"
	}
	var body qwenRequest
	body.Model = stringOpt(options, OptModel, model)
	if systemPrompt != "" {
		body.Input.Messages = append(body.Input.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	body.Input.Messages = append(body.Input.Messages, chatMessage{Role: "user", Content: prompt})
	body.Parameters.ResultFormat = "message"
	body.Parameters.Temperature = floatOpt(options, OptTemperature, 0.7)
	if boolOpt(options, OptJSON) {
		body.Parameters.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qwen request: %w", err)
	}

	url := p.BaseURL
	if url == "" {
		url = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpClient(p.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("qwen api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("qwen api returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result qwenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode qwen response: %w", err)
	}
	if result.Code != "" {
		return "", fmt.Errorf("qwen api error: %s - %s", result.Code, result.Message)
	}
	if len(result.Output.Choices) > 0 {
		return result.Output.Choices[0].Message.Content, nil
	}
	if result.Output.Text != "" {
		return result.Output.Text, nil
	}
	return "", fmt.Errorf("empty response from qwen api")
}

func (p *QwenProvider) AdaptInstructions(raw string) string {
	return raw
}
