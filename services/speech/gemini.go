package speech

import (
	"context"
	"fmt"
	"strings"

	"voicedesk/services/fallback"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM generates the assistant's tool-call decisions. The system
// prompt (business persona plus the tool envelope contract) is installed as
// the model's system instruction; each invocation carries the conversation
// so far.
type GeminiLLM struct {
	model *genai.GenerativeModel
}

func NewGeminiLLM(ctx context.Context, apiKey, systemPrompt string) (*GeminiLLM, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-flash")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	return &GeminiLLM{model: model}, nil
}

// Generate produces the model's reply for one prompt.
func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// Provider registers this client as an LLM pool member.
func (g *GeminiLLM) Provider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "gemini-llm",
		Capability: fallback.CapabilityLLM,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			text, err := g.Generate(ctx, req.Text)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Text: text}, nil
		},
	}
}
