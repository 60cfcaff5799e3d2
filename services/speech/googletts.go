package speech

import (
	"context"
	"encoding/base64"
	"fmt"

	"voicedesk/services/fallback"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

// GoogleTTS synthesizes replies with Google Cloud Text-to-Speech, producing
// 16 kHz LINEAR16 audio to match what the STT side consumes.
type GoogleTTS struct {
	service  *texttospeech.Service
	language string
}

func NewGoogleTTS(ctx context.Context, credentialsFile, language string) (*GoogleTTS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	service, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text-to-speech service: %w", err)
	}
	return &GoogleTTS{service: service, language: language}, nil
}

// Synthesize renders text to audio bytes.
func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: g.language,
			SsmlGender:   "FEMALE",
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding:   "LINEAR16",
			SampleRateHertz: 16000,
		},
	}

	resp, err := g.service.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode synthesized audio: %w", err)
	}
	return audio, nil
}

// Provider registers this client as a TTS pool member.
func (g *GoogleTTS) Provider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "google-tts",
		Capability: fallback.CapabilityTTS,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			audio, err := g.Synthesize(ctx, req.Text)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Audio: audio}, nil
		},
	}
}
