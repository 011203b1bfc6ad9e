package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiStreamProvider streams Gemini output chunk by chunk. Non-streaming
// calls go through the embedded GeminiProvider.
type GeminiStreamProvider struct {
	GeminiProvider
}

var _ StreamProvider = (*GeminiStreamProvider)(nil)

func (p *GeminiStreamProvider) StreamResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}, onChunk func(string) error) error {
	apiKey := geminiKey(options)
	if apiKey == "" {
		return errMissingKey("gemini", "GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model(options))
	model.SetTemperature(float32(floatOpt(options, OptTemperature, 0.7)))
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				txt, ok := part.(genai.Text)
				if !ok || txt == "" {
					continue
				}
				if err := onChunk(string(txt)); err != nil {
					return err
				}
			}
		}
	}
}
