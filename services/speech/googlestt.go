// Package speech holds the concrete providers that back the STT, LLM, and
// TTS fallback pools. Each type exposes a Provider method so main can
// register it at the priority the deployment wants.
package speech

import (
	"context"
	"fmt"
	"strings"

	"voicedesk/services/fallback"

	speech "cloud.google.com/go/speech/apiv1"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

// GoogleSTT transcribes 16 kHz mono LINEAR16 audio with Google Cloud
// Speech-to-Text.
type GoogleSTT struct {
	client   *speech.Client
	language string
}

func NewGoogleSTT(ctx context.Context, credentialsFile, language string) (*GoogleSTT, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleSTT{client: client, language: language}, nil
}

// Transcribe runs synchronous recognition over one utterance.
func (g *GoogleSTT) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			LanguageCode:      g.language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := g.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			sb.WriteString(result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Provider registers this client as an STT pool member.
func (g *GoogleSTT) Provider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "google-stt",
		Capability: fallback.CapabilitySTT,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			text, err := g.Transcribe(ctx, req.Audio)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Text: text}, nil
		},
	}
}

// Close releases the underlying gRPC connection.
func (g *GoogleSTT) Close() error {
	return g.client.Close()
}
