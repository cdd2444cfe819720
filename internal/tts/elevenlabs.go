package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lumihub/lumi-gateway/internal/config"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabsProvider synthesizes speech through the ElevenLabs REST API.
// The configured voice name is resolved to a voice id on every call; the
// catalog is small and the lookup keeps the config human-readable.
type ElevenLabsProvider struct {
	apiKey     string
	voiceName  string
	modelID    string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsProvider creates an ElevenLabs provider from config.
func NewElevenLabsProvider(cfg *config.ElevenLabsConfig) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		apiKey:    cfg.APIKey,
		voiceName: cfg.VoiceName,
		modelID:   cfg.ModelID,
		baseURL:   defaultElevenLabsBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
	}
}

// Name implements Provider.
func (p *ElevenLabsProvider) Name() string {
	return "elevenlabs"
}

// Synthesize implements Provider.
func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("api key is not configured")
	}

	voiceID, err := p.resolveVoiceID(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: p.modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.45,
			SimilarityBoost: 0.8,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", p.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(detail))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}
	return data, nil
}

// resolveVoiceID looks the configured voice name up in the voice catalog.
func (p *ElevenLabsProvider) resolveVoiceID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/voices", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("voice lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("voice lookup returned status %d", resp.StatusCode)
	}

	var catalog voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return "", fmt.Errorf("failed to decode voice catalog: %w", err)
	}

	for _, voice := range catalog.Voices {
		if voice.Name == p.voiceName && voice.VoiceID != "" {
			return voice.VoiceID, nil
		}
	}
	return "", fmt.Errorf("voice not found: %s", p.voiceName)
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type voicesResponse struct {
	Voices []voiceEntry `json:"voices"`
}

type voiceEntry struct {
	VoiceID string `json:"voice_id"`
	Name    string `json:"name"`
}
