package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/miniArray/voicepipe/internal/models/whisper"
	"github.com/miniArray/voicepipe/internal/recording"
	"github.com/miniArray/voicepipe/internal/synthesis"
	"github.com/miniArray/voicepipe/internal/transcriber"
)

// Environment variables consulted when the config file leaves a field empty.
const (
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvWhisperModel  = "VOICEPIPE_WHISPER_MODEL"
)

type Config struct {
	Recording     RecordingConfig     `toml:"recording"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Synthesis     SynthesisConfig     `toml:"synthesis"`
}

type RecordingConfig struct {
	SampleRate        int    `toml:"sample_rate"`
	Channels          int    `toml:"channels"`
	Format            string `toml:"format"`
	BufferSize        int    `toml:"buffer_size"`
	Device            string `toml:"device"`
	ChannelBufferSize int    `toml:"channel_buffer_size"`
}

type TranscriptionConfig struct {
	Provider    string `toml:"provider"`
	APIKey      string `toml:"api_key"`
	Language    string `toml:"language"`
	Model       string `toml:"model"`
	ModelPath   string `toml:"model_path"` // whisper.cpp model file
	Threads     int    `toml:"threads"`
	MaxAttempts int    `toml:"max_attempts"`
}

type SynthesisConfig struct {
	APIKey          string  `toml:"api_key"`
	VoiceID         string  `toml:"voice_id"`
	Model           string  `toml:"model"`
	Stability       float64 `toml:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost"`
}

func Default() *Config {
	rec := recording.DefaultConfig()
	syn := synthesis.DefaultConfig()
	return &Config{
		Recording: RecordingConfig{
			SampleRate:        rec.SampleRate,
			Channels:          rec.Channels,
			Format:            rec.Format,
			BufferSize:        rec.BufferSize,
			Device:            rec.Device,
			ChannelBufferSize: rec.ChannelBufferSize,
		},
		Transcription: TranscriptionConfig{
			Provider:    transcriber.ProviderWhisperCpp,
			Language:    "",
			Model:       "",
			ModelPath:   "",
			Threads:     0,
			MaxAttempts: transcriber.DefaultMaxAttempts,
		},
		Synthesis: SynthesisConfig{
			VoiceID:         syn.VoiceID,
			Model:           syn.Model,
			Stability:       syn.Stability,
			SimilarityBoost: syn.SimilarityBoost,
		},
	}
}

func (c *Config) ToRecordingConfig() recording.Config {
	return recording.Config{
		SampleRate:        c.Recording.SampleRate,
		Channels:          c.Recording.Channels,
		Format:            c.Recording.Format,
		BufferSize:        c.Recording.BufferSize,
		Device:            c.Recording.Device,
		ChannelBufferSize: c.Recording.ChannelBufferSize,
	}
}

// ToTranscriberConfig resolves environment fallbacks: API keys from the
// provider's variable, the whisper model path from VOICEPIPE_WHISPER_MODEL
// or the default installed-model location.
func (c *Config) ToTranscriberConfig() transcriber.Config {
	cfg := transcriber.Config{
		Provider:  c.Transcription.Provider,
		APIKey:    c.Transcription.APIKey,
		Language:  c.Transcription.Language,
		Model:     c.Transcription.Model,
		ModelPath: c.Transcription.ModelPath,
		Threads:   c.Transcription.Threads,
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case transcriber.ProviderOpenAI:
			cfg.APIKey = os.Getenv(EnvOpenAIKey)
		case transcriber.ProviderElevenLabs:
			cfg.APIKey = os.Getenv(EnvElevenLabsKey)
		}
	}

	if cfg.ModelPath == "" {
		cfg.ModelPath = resolveWhisperModelPath()
	}

	return cfg
}

func (c *Config) ToSynthesisConfig() synthesis.Config {
	cfg := synthesis.Config{
		APIKey:          c.Synthesis.APIKey,
		VoiceID:         c.Synthesis.VoiceID,
		Model:           c.Synthesis.Model,
		Stability:       c.Synthesis.Stability,
		SimilarityBoost: c.Synthesis.SimilarityBoost,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvElevenLabsKey)
	}
	return cfg
}

// resolveWhisperModelPath prefers the env override, then the default model's
// install location.
func resolveWhisperModelPath() string {
	if p := os.Getenv(EnvWhisperModel); p != "" {
		return p
	}
	return whisper.GetModelPath(whisper.DefaultModelID)
}

func (c *Config) MaxAttempts() int {
	if c.Transcription.MaxAttempts <= 0 {
		return transcriber.DefaultMaxAttempts
	}
	return c.Transcription.MaxAttempts
}

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid recording.channel_buffer_size: %d", c.Recording.ChannelBufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}

	switch c.Transcription.Provider {
	case transcriber.ProviderWhisperCpp, transcriber.ProviderOpenAI, transcriber.ProviderElevenLabs:
	case "":
		return fmt.Errorf("invalid transcription.provider: empty")
	default:
		return fmt.Errorf("invalid transcription.provider: %s (must be whisper.cpp, openai, or elevenlabs)", c.Transcription.Provider)
	}

	if c.Transcription.Language != "" && !IsValidLanguageCode(c.Transcription.Language) {
		return fmt.Errorf("invalid transcription.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'en', 'es', 'fr')", c.Transcription.Language)
	}

	if c.Synthesis.Stability < 0 || c.Synthesis.Stability > 1 {
		return fmt.Errorf("invalid synthesis.stability: %v (must be in [0,1])", c.Synthesis.Stability)
	}
	if c.Synthesis.SimilarityBoost < 0 || c.Synthesis.SimilarityBoost > 1 {
		return fmt.Errorf("invalid synthesis.similarity_boost: %v (must be in [0,1])", c.Synthesis.SimilarityBoost)
	}

	return nil
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	dir := filepath.Join(configDir, "voicepipe")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("config: no config file at %s, creating with defaults", configPath)
		if err := SaveDefaultConfig(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &config, nil
}

func Save(c *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func SaveDefaultConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configContent := `# voicepipe configuration
# Edit values as needed, or run "voicepipe configure".

# Microphone capture
[recording]
  sample_rate = 16000          # Hz (16000 recommended for speech)
  channels = 1                 # 1 = mono, 2 = stereo
  format = "s16"               # 16-bit signed integers
  buffer_size = 8192           # read buffer in bytes
  device = ""                  # PipeWire target device (empty = default mic)
  channel_buffer_size = 30     # frames to buffer between capture and collection

# Speech-to-text
[transcription]
  provider = "whisper.cpp"     # "whisper.cpp" (local), "openai", or "elevenlabs"
  api_key = ""                 # cloud key (or OPENAI_API_KEY / ELEVENLABS_API_KEY)
  language = ""                # ISO-639-1 code, empty for auto-detect
  model = ""                   # cloud model id ("whisper-1", "scribe_v1"); empty = provider default
  model_path = ""              # whisper.cpp model file (or VOICEPIPE_WHISPER_MODEL; empty = installed base.en)
  threads = 0                  # whisper.cpp CPU threads, 0 = auto
  max_attempts = 3             # cloud/local transcription attempts before giving up

# Text-to-speech
[synthesis]
  api_key = ""                 # ElevenLabs key (or ELEVENLABS_API_KEY)
  voice_id = "21m00Tcm4TlvDq8ikWAM"
  model = "eleven_multilingual_v2"
  stability = 0.5              # voice stability, 0..1
  similarity_boost = 0.75      # voice similarity boost, 0..1
`

	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		return fmt.Errorf("failed to write config content: %w", err)
	}
	return nil
}
