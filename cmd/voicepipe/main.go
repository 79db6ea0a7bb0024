package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/miniArray/voicepipe/internal/config"
	"github.com/miniArray/voicepipe/internal/deps"
	"github.com/miniArray/voicepipe/internal/models/whisper"
	"github.com/miniArray/voicepipe/internal/pipeline"
	"github.com/miniArray/voicepipe/internal/synthesis"
	"github.com/miniArray/voicepipe/internal/tui"
)

const version = "0.1.0"

func main() {
	// optional .env for API keys; absence is not an error
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "voicepipe",
	Short:         "Record-and-transcribe and text-to-speech from the command line",
	Long: `voicepipe is a pair of thin pipes between your terminal and speech services:

  listen  records the microphone and prints the transcript to stdout
  say     synthesizes text and writes the audio bytes to stdout

Transcripts and audio go to stdout only; everything else goes to stderr,
so both commands compose with shell pipelines.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(
		listenCmd(),
		sayCmd(),
		configureCmd(),
		modelCmd(),
		doctorCmd(),
		versionCmd(),
	)
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			missing := 0
			for _, s := range doctorStatuses(cfg) {
				mark := "ok"
				if !s.Installed {
					mark = "missing"
					missing++
				}
				line := fmt.Sprintf("%-14s %s", s.Name, mark)
				if s.Path != "" {
					line += "  " + s.Path
				}
				if s.Version != "" {
					line += "  (" + s.Version + ")"
				}
				fmt.Fprintln(os.Stderr, line)
			}

			if missing > 0 {
				return fmt.Errorf("%d dependency check(s) failed", missing)
			}
			return nil
		},
	}
}

// doctorStatuses checks the same model path listen would use, env
// overrides included.
func doctorStatuses(cfg *config.Config) []deps.Status {
	return []deps.Status{
		deps.CheckPwRecord(),
		deps.CheckWhisperCli(),
		deps.CheckWhisperModel(cfg.ToTranscriberConfig().ModelPath),
	}
}

func listenCmd() *cobra.Command {
	var provider, language, model string
	var maxAttempts int

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Record the microphone and print the transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if provider != "" {
				cfg.Transcription.Provider = provider
			}
			if language != "" {
				cfg.Transcription.Language = language
			}
			if model != "" {
				cfg.Transcription.Model = model
			}
			if maxAttempts > 0 {
				cfg.Transcription.MaxAttempts = maxAttempts
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runListen(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "transcription provider (whisper.cpp, openai, elevenlabs)")
	cmd.Flags().StringVar(&language, "language", "", "language code, empty for auto-detect")
	cmd.Flags().StringVar(&model, "model", "", "cloud model id")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "transcription attempts before giving up")

	return cmd
}

func runListen(ctx context.Context, cfg *config.Config) error {
	session, err := pipeline.Start(ctx, pipeline.Options{
		Recording:   cfg.ToRecordingConfig(),
		Transcriber: cfg.ToTranscriberConfig(),
		MaxAttempts: cfg.MaxAttempts(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "recording... press Enter or Ctrl-C to stop")

	// two stop triggers funneled into one channel; the session's one-shot
	// stop makes a race between them harmless
	stopCh := make(chan struct{}, 2)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		stopCh <- struct{}{}
	}()

	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		stopCh <- struct{}{}
	}()

	select {
	case <-stopCh:
	case <-session.Done():
		// capture ended on its own, e.g. pw-record died right after
		// starting; Finish reports what went wrong
	case <-ctx.Done():
		return ctx.Err()
	}

	fmt.Fprintln(os.Stderr, "transcribing...")

	text, err := session.Finish(ctx)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

func sayCmd() *cobra.Command {
	var voiceID, model, output string
	var stability, similarityBoost float64

	cmd := &cobra.Command{
		Use:   "say [text]",
		Short: "Synthesize text to speech and write the audio to stdout",
		Long: `Synthesize text via the ElevenLabs API. Text comes from the arguments, or
from stdin when no argument is given. Audio bytes go to stdout (or --output),
so redirect them:

  voicepipe say "hello there" > hello.mp3
  echo "hello there" | voicepipe say -o hello.mp3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if voiceID != "" {
				cfg.Synthesis.VoiceID = voiceID
			}
			if model != "" {
				cfg.Synthesis.Model = model
			}
			if cmd.Flags().Changed("stability") {
				cfg.Synthesis.Stability = stability
			}
			if cmd.Flags().Changed("similarity-boost") {
				cfg.Synthesis.SimilarityBoost = similarityBoost
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			text, err := gatherText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			return runSay(cmd.Context(), cfg, text, output)
		},
	}

	cmd.Flags().StringVar(&voiceID, "voice", "", "ElevenLabs voice id")
	cmd.Flags().StringVar(&model, "model", "", "synthesis model id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write audio to file instead of stdout")
	cmd.Flags().Float64Var(&stability, "stability", 0, "voice stability, 0..1")
	cmd.Flags().Float64Var(&similarityBoost, "similarity-boost", 0, "voice similarity boost, 0..1")

	return cmd
}

// gatherText joins the argument words, or reads stdin to EOF when no
// argument was given. Blank input is an error either way.
func gatherText(args []string, stdin io.Reader) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(raw))
	}
	if text == "" {
		return "", fmt.Errorf("empty input: nothing to synthesize")
	}
	return text, nil
}

func runSay(ctx context.Context, cfg *config.Config, text, output string) error {
	client, err := synthesis.NewClient(cfg.ToSynthesisConfig())
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "synthesizing...")

	audio, err := client.Synthesize(ctx, text)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, audio, 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(audio), output)
		return nil
	}

	if _, err := os.Stdout.Write(audio); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			result, err := tui.Run(cfg)
			if err != nil {
				return fmt.Errorf("configuration wizard error: %w", err)
			}
			if result.Cancelled {
				fmt.Fprintln(os.Stderr, "configuration cancelled")
				return nil
			}

			if err := result.Config.Validate(); err != nil {
				return err
			}
			if err := config.Save(result.Config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			configPath, _ := config.GetConfigPath()
			fmt.Fprintf(os.Stderr, "configuration saved to %s\n", configPath)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the voicepipe version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage local whisper.cpp models",
	}

	cmd.AddCommand(modelListCmd(), modelDownloadCmd(), modelRemoveCmd())
	return cmd
}

func modelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available whisper.cpp models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := whisper.ListModels()
			sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

			for _, m := range models {
				mark := "[ ]"
				if whisper.IsInstalled(m.ID) {
					mark = "[x]"
				}
				lang := "english-only"
				if m.Multilingual {
					lang = "multilingual"
				}
				fmt.Printf("%s %-10s %-6s %s\n", mark, m.ID, m.Size, lang)
			}
			return nil
		},
	}
}

func modelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <model-id>",
		Short: "Download a whisper.cpp model from huggingface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID := args[0]

			if whisper.IsInstalled(modelID) {
				fmt.Fprintf(os.Stderr, "model %s already installed at %s\n", modelID, whisper.GetModelPath(modelID))
				return nil
			}

			info := whisper.GetModel(modelID)
			if info == nil {
				return fmt.Errorf("unknown model: %s", modelID)
			}
			fmt.Fprintf(os.Stderr, "downloading %s (%s)...\n", modelID, info.Size)

			var lastPercent int64 = -1
			err := whisper.Download(cmd.Context(), modelID, func(downloaded, total int64) {
				if total <= 0 {
					return
				}
				percent := downloaded * 100 / total
				if percent >= lastPercent+10 {
					fmt.Fprintf(os.Stderr, "%d%% ", percent)
					lastPercent = percent
				}
			})
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}

			fmt.Fprintf(os.Stderr, "\ndownload complete: %s\n", whisper.GetModelPath(modelID))
			return nil
		},
	}
}

func modelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model-id>",
		Short: "Remove a downloaded whisper.cpp model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := whisper.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "model %s removed\n", args[0])
			return nil
		},
	}
}
