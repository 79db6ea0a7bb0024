package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default with key",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: "API key required",
		},
		{
			name:    "missing voice id",
			mutate:  func(c *Config) { c.VoiceID = "" },
			wantErr: "voice ID required",
		},
		{
			name:    "stability above range",
			mutate:  func(c *Config) { c.Stability = 1.5 },
			wantErr: "stability",
		},
		{
			name:    "negative stability",
			mutate:  func(c *Config) { c.Stability = -0.1 },
			wantErr: "stability",
		},
		{
			name:    "similarity boost above range",
			mutate:  func(c *Config) { c.SimilarityBoost = 2 },
			wantErr: "similarity boost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.APIKey = "xi-test"
			tt.mutate(&cfg)

			client, err := NewClient(cfg)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if client == nil {
				t.Fatal("expected client, got nil")
			}
		})
	}
}

func TestNewClient_MissingKeyIsSentinel(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewClient(cfg)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got: %v", err)
	}
}

func TestSynthesize(t *testing.T) {
	wantAudio := bytes.Repeat([]byte{0xFA, 0xDE}, 512)

	var gotPath, gotAPIKey string
	var gotBody synthesisRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("xi-api-key")

		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("invalid request body: %v", err)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(wantAudio)
	}))
	defer server.Close()

	cfg := Config{
		APIKey:          "xi-secret",
		VoiceID:         "voice-123",
		Model:           "eleven_multilingual_v2",
		Stability:       0.4,
		SimilarityBoost: 0.8,
	}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.baseURL = server.URL

	audio, err := client.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if !bytes.Equal(audio, wantAudio) {
		t.Errorf("expected full audio stream collected, got %d bytes want %d", len(audio), len(wantAudio))
	}
	if gotPath != "/voice-123" {
		t.Errorf("expected voice ID in path, got %q", gotPath)
	}
	if gotAPIKey != "xi-secret" {
		t.Errorf("expected xi-api-key header, got %q", gotAPIKey)
	}
	if gotBody.Text != "hello world" {
		t.Errorf("expected text in body, got %q", gotBody.Text)
	}
	if gotBody.ModelID != "eleven_multilingual_v2" {
		t.Errorf("expected model_id in body, got %q", gotBody.ModelID)
	}
	if gotBody.VoiceSettings.Stability != 0.4 {
		t.Errorf("expected stability 0.4, got %v", gotBody.VoiceSettings.Stability)
	}
	if gotBody.VoiceSettings.SimilarityBoost != 0.8 {
		t.Errorf("expected similarity_boost 0.8, got %v", gotBody.VoiceSettings.SimilarityBoost)
	}
}

func TestSynthesize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "voice not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "xi-test"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.baseURL = server.URL

	_, err = client.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "voice not found") {
		t.Errorf("expected body in error, got: %v", err)
	}
}

func TestSynthesize_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "xi-test"
	client, _ := NewClient(cfg)
	client.baseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Synthesize(ctx, "hello"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
