package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicedesk/services/fallback"
)

const groqChatURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqLLM is the fallback language model, reached over Groq's
// OpenAI-compatible chat completions API.
type GroqLLM struct {
	apiKey       string
	model        string
	systemPrompt string
	httpClient   *http.Client
}

func NewGroqLLM(apiKey, systemPrompt string) *GroqLLM {
	return &GroqLLM{
		apiKey:       apiKey,
		model:        "llama-3.3-70b-versatile",
		systemPrompt: systemPrompt,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate produces the model's reply for one prompt.
func (g *GroqLLM) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: g.systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqChatURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("groq returned %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Provider registers this client as an LLM pool member.
func (g *GroqLLM) Provider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "groq-llm",
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
