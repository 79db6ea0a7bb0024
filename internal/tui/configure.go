package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/miniArray/voicepipe/internal/config"
	"github.com/miniArray/voicepipe/internal/transcriber"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)
)

// ConfigureResult holds the configuration result from the wizard.
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// Run walks the user through provider and synthesis setup and returns the
// edited config. The caller validates and saves it.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	clearScreen()
	fmt.Fprintln(os.Stderr, styleHeader.Render("voicepipe setup"))

	provider := cfg.Transcription.Provider
	if provider == "" {
		provider = transcriber.ProviderWhisperCpp
	}
	sttKey := cfg.Transcription.APIKey
	language := cfg.Transcription.Language
	ttsKey := cfg.Synthesis.APIKey
	voiceID := cfg.Synthesis.VoiceID
	stability := formatFloat(cfg.Synthesis.Stability)
	similarity := formatFloat(cfg.Synthesis.SimilarityBoost)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription provider").
				Description("whisper.cpp runs locally; cloud providers need an API key").
				Options(
					huh.NewOption("whisper.cpp (local, free)", transcriber.ProviderWhisperCpp),
					huh.NewOption("OpenAI Whisper", transcriber.ProviderOpenAI),
					huh.NewOption("ElevenLabs Scribe", transcriber.ProviderElevenLabs),
				).
				Value(&provider),

			huh.NewInput().
				Title("Transcription API key").
				Description("leave empty to use OPENAI_API_KEY / ELEVENLABS_API_KEY (unused for whisper.cpp)").
				EchoMode(huh.EchoModePassword).
				Value(&sttKey),

			huh.NewInput().
				Title("Language").
				Description("ISO-639-1 code like 'en' or 'it'; empty for auto-detect").
				Value(&language).
				Validate(func(s string) error {
					if s != "" && !config.IsValidLanguageCode(s) {
						return fmt.Errorf("unknown language code: %s", s)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("ElevenLabs API key (text-to-speech)").
				Description("leave empty to use ELEVENLABS_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&ttsKey),

			huh.NewInput().
				Title("Voice ID").
				Value(&voiceID),

			huh.NewInput().
				Title("Stability").
				Description("0..1").
				Value(&stability).
				Validate(validateUnitFloat),

			huh.NewInput().
				Title("Similarity boost").
				Description("0..1").
				Value(&similarity).
				Validate(validateUnitFloat),
		),
	).WithTheme(formTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}

	cfg.Transcription.Provider = provider
	cfg.Transcription.APIKey = strings.TrimSpace(sttKey)
	cfg.Transcription.Language = strings.TrimSpace(language)
	cfg.Synthesis.APIKey = strings.TrimSpace(ttsKey)
	cfg.Synthesis.VoiceID = strings.TrimSpace(voiceID)
	cfg.Synthesis.Stability, _ = strconv.ParseFloat(stability, 64)
	cfg.Synthesis.SimilarityBoost, _ = strconv.ParseFloat(similarity, 64)

	return &ConfigureResult{Config: cfg}, nil
}

func validateUnitFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", s)
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("must be between 0 and 1")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func clearScreen() {
	output := termenv.NewOutput(os.Stderr)
	output.ClearScreen()
}

func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(colorPrimary)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorMuted)

	return t
}
