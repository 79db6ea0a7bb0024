package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/miniArray/voicepipe/internal/wav"
)

// OpenAIAdapter sends batch audio to the OpenAI Whisper API.
type OpenAIAdapter struct {
	client   *openai.Client
	model    string
	language string
}

func NewOpenAIAdapter(apiKey, model, lang string) *OpenAIAdapter {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIAdapter{
		client:   openai.NewClient(apiKey),
		model:    model,
		language: lang,
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if len(pcm) == 0 {
		return "", nil
	}

	wavData := wav.EncodeDefault(pcm)

	req := openai.AudioRequest{
		Model:    a.model,
		Reader:   bytes.NewReader(wavData),
		FilePath: "audio.wav",
		Language: a.language,
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("openai-adapter: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	log.Printf("openai-adapter: transcribed %d bytes in %v: %q", len(pcm), duration, resp.Text)
	return resp.Text, nil
}
