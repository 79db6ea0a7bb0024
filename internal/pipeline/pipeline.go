package pipeline

import (
	"context"
	"log"

	"github.com/miniArray/voicepipe/internal/recording"
	"github.com/miniArray/voicepipe/internal/transcriber"
)

// audioSource is the stop-and-drain surface of a recording session.
type audioSource interface {
	Stop(ctx context.Context) ([]byte, error)
	Done() <-chan struct{}
}

type Options struct {
	Recording   recording.Config
	Transcriber transcriber.Config
	MaxAttempts int
}

// Session is one capture-and-transcribe run. It exists so the cancellation
// path (signal handler) and the normal flow share a single owner object
// instead of reaching through globals; Finish is idempotent through the
// underlying recording session's one-shot stop.
type Session struct {
	source      audioSource
	adapter     transcriber.Adapter
	maxAttempts int
}

// Start builds the transcription adapter and begins capturing immediately.
// Provider selection happens here, once; a misconfigured provider fails
// before any audio is recorded.
func Start(ctx context.Context, opts Options) (*Session, error) {
	adapter, err := transcriber.New(opts.Transcriber)
	if err != nil {
		return nil, err
	}

	rec, err := recording.NewSession(ctx, opts.Recording)
	if err != nil {
		return nil, err
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = transcriber.DefaultMaxAttempts
	}

	return &Session{source: rec, adapter: adapter, maxAttempts: maxAttempts}, nil
}

// Done is closed when capture ends on its own, before anyone asked it to
// stop. Callers waiting for a stop trigger should also watch this so a
// subprocess that dies right away is reported without user input.
func (s *Session) Done() <-chan struct{} {
	return s.source.Done()
}

// Finish stops the recording and transcribes everything captured, retrying
// transient transcription failures.
func (s *Session) Finish(ctx context.Context) (string, error) {
	pcm, err := s.source.Stop(ctx)
	if err != nil {
		return "", err
	}

	log.Printf("pipeline: transcribing %d bytes of audio", len(pcm))
	return transcriber.TranscribeWithRetry(ctx, s.adapter, pcm, s.maxAttempts)
}
