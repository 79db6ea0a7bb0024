package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrMissingAPIKey is returned at construction when no credential is
// configured for the cloud synthesis endpoint.
var ErrMissingAPIKey = errors.New("ElevenLabs API key required: set ELEVENLABS_API_KEY or synthesis.api_key")

const elevenLabsTTSBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"

type Config struct {
	APIKey          string
	VoiceID         string
	Model           string
	Stability       float64 // [0,1]
	SimilarityBoost float64 // [0,1]
}

func DefaultConfig() Config {
	return Config{
		VoiceID:         "21m00Tcm4TlvDq8ikWAM", // "Rachel", the API's stock voice
		Model:           "eleven_multilingual_v2",
		Stability:       0.5,
		SimilarityBoost: 0.75,
	}
}

// Client calls the ElevenLabs text-to-speech endpoint. Unlike the
// transcription path there is no retry here: a synthesis failure surfaces
// immediately.
type Client struct {
	http    *http.Client
	baseURL string
	config  Config
}

func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.VoiceID == "" {
		return nil, fmt.Errorf("voice ID required")
	}
	if config.Stability < 0 || config.Stability > 1 {
		return nil, fmt.Errorf("stability must be in [0,1], got %v", config.Stability)
	}
	if config.SimilarityBoost < 0 || config.SimilarityBoost > 1 {
		return nil, fmt.Errorf("similarity boost must be in [0,1], got %v", config.SimilarityBoost)
	}
	return &Client{
		http:    &http.Client{Timeout: 60 * time.Second},
		baseURL: elevenLabsTTSBaseURL,
		config:  config,
	}, nil
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to speech and returns the full audio byte
// sequence. The response is streamed by the API but collected into one
// buffer before returning.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: c.config.Model,
		VoiceSettings: voiceSettings{
			Stability:       c.config.Stability,
			SimilarityBoost: c.config.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/" + c.config.VoiceID
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs API status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}

	log.Printf("synthesis: %d chars -> %d audio bytes in %v", len(text), len(audio), time.Since(start))
	return audio, nil
}
