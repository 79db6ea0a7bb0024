package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/miniArray/voicepipe/internal/wav"
)

// WhisperCppAdapter runs local transcription through the whisper-cli binary
// from whisper.cpp.
type WhisperCppAdapter struct {
	modelPath string
	language  string
	threads   int
	binary    string // overridable in tests
}

func NewWhisperCppAdapter(modelPath, lang string, threads int) *WhisperCppAdapter {
	return &WhisperCppAdapter{
		modelPath: modelPath,
		language:  lang,
		threads:   threads,
		binary:    "whisper-cli",
	}
}

func (a *WhisperCppAdapter) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if len(pcm) == 0 {
		return "", nil
	}

	if _, err := os.Stat(a.modelPath); os.IsNotExist(err) {
		return "", fmt.Errorf("model file not found: %s", a.modelPath)
	}

	binPath, err := exec.LookPath(a.binary)
	if err != nil {
		return "", fmt.Errorf("%s not found: install whisper.cpp first", a.binary)
	}

	wavData := wav.EncodeDefault(pcm)

	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("voicepipe-%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(tmpFile, wavData, 0600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	defer os.Remove(tmpFile)

	lang := a.language
	if lang == "" {
		lang = "auto"
	}

	args := []string{
		"-m", a.modelPath,
		"-l", lang,
		"-nt", // no timestamps
		"-np", // no progress
		"-f", tmpFile,
	}
	if a.threads > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", a.threads))
	}

	cmd := exec.CommandContext(ctx, binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("whisper-cpp: command failed after %v: %v\nstderr: %s", duration, err, stderr.String())
		return "", fmt.Errorf("%s failed: %w: %s", a.binary, err, strings.TrimSpace(stderr.String()))
	}

	text := parseWhisperOutput(stdout.String())
	log.Printf("whisper-cpp: transcribed %d bytes in %v: %q", len(pcm), duration, text)
	return text, nil
}

// parseWhisperOutput keeps only the recognized text: lines starting with '['
// are timestamp/diagnostic noise and blank lines carry nothing; the rest is
// joined with single spaces.
func parseWhisperOutput(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
