package transcriber

import (
	"context"
	"fmt"
)

// Adapter is the common contract over transcription backends: raw 16 kHz
// mono PCM in, recognized text out.
type Adapter interface {
	Transcribe(ctx context.Context, pcm []byte) (string, error)
}

// Supported provider names.
const (
	ProviderWhisperCpp = "whisper.cpp"
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
)

type Config struct {
	Provider  string
	APIKey    string
	Language  string
	Model     string // cloud model identifier (e.g. "whisper-1", "scribe_v1")
	ModelPath string // local whisper.cpp model file
	Threads   int    // local CPU threads, 0 for auto
}

// New selects the backend at construction time. There is no per-call
// re-dispatch: the returned Adapter is bound to one provider for its
// lifetime.
func New(config Config) (Adapter, error) {
	switch config.Provider {
	case ProviderWhisperCpp:
		if config.ModelPath == "" {
			return nil, fmt.Errorf("whisper.cpp model path required")
		}
		return NewWhisperCppAdapter(config.ModelPath, config.Language, config.Threads), nil

	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required: set OPENAI_API_KEY or transcription.api_key")
		}
		return NewOpenAIAdapter(config.APIKey, config.Model, config.Language), nil

	case ProviderElevenLabs:
		if config.APIKey == "" {
			return nil, fmt.Errorf("ElevenLabs API key required: set ELEVENLABS_API_KEY or transcription.api_key")
		}
		return NewElevenLabsAdapter(config.APIKey, config.Model, config.Language), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
