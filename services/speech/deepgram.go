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

const (
	deepgramListenURL = "https://api.deepgram.com/v1/listen?model=nova-2&smart_format=true"
	deepgramSpeakURL  = "https://api.deepgram.com/v1/speak?model=aura-asteria-en&encoding=linear16&sample_rate=16000"
)

// DeepgramClient is the secondary STT and TTS backend, reached over
// Deepgram's REST API.
type DeepgramClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewDeepgramClient(apiKey string) *DeepgramClient {
	return &DeepgramClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// listenResponse mirrors the fields we read from Deepgram's transcription
// payload.
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends one WAV utterance for transcription.
func (d *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepgramListenURL, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram listen request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deepgram listen returned %d: %s", resp.StatusCode, body)
	}

	var parsed listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse deepgram response: %w", err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", fmt.Errorf("deepgram returned no transcript")
	}
	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}

// Synthesize renders text to 16 kHz LINEAR16 audio.
func (d *DeepgramClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepgramSpeakURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram speak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deepgram speak returned %d: %s", resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}

// STTProvider registers the transcription side as an STT pool member.
func (d *DeepgramClient) STTProvider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "deepgram-stt",
		Capability: fallback.CapabilitySTT,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			text, err := d.Transcribe(ctx, req.Audio)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Text: text}, nil
		},
	}
}

// TTSProvider registers the synthesis side as a TTS pool member.
func (d *DeepgramClient) TTSProvider(priority int) fallback.Provider {
	return fallback.Provider{
		Name:       "deepgram-tts",
		Capability: fallback.CapabilityTTS,
		Priority:   priority,
		Invoke: func(ctx context.Context, req fallback.Request) (fallback.Response, error) {
			audio, err := d.Synthesize(ctx, req.Text)
			if err != nil {
				return fallback.Response{}, err
			}
			return fallback.Response{Audio: audio}, nil
		},
	}
}
