package recording

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoAudioCaptured is returned by Stop when the subprocess never
	// delivered a single chunk.
	ErrNoAudioCaptured = errors.New("no audio captured")

	// ErrStopTimeout is returned when the capture subprocess does not wind
	// down within the shutdown grace period.
	ErrStopTimeout = errors.New("timed out waiting for recording to stop")
)

const stopGracePeriod = 2 * time.Second

// Session owns one recording run: a Recorder plus an ordered byte
// accumulator. Frames and capture errors are funneled through a single
// collector goroutine, so arrival order is the audio timeline and a late
// process-exit notification cannot corrupt the buffer.
type Session struct {
	recorder *Recorder

	mu       sync.Mutex
	buf      []byte
	drainErr error

	done  chan struct{} // closed once the collector has drained everything
	grace time.Duration

	stopOnce sync.Once
	stopPCM  []byte
	stopErr  error
}

// NewSession starts capturing immediately and returns a handle whose only
// remaining operation is Stop.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	rec := NewRecorder(cfg)
	frameCh, errCh, err := rec.Start(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(rec, frameCh, errCh), nil
}

func newSession(rec *Recorder, frames <-chan AudioFrame, errs <-chan error) *Session {
	s := &Session{recorder: rec, done: make(chan struct{}), grace: stopGracePeriod}
	go s.collect(frames, errs)
	return s
}

func (s *Session) collect(frames <-chan AudioFrame, errs <-chan error) {
	defer close(s.done)

	for frames != nil || errs != nil {
		select {
		case frame, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			s.mu.Lock()
			s.buf = append(s.buf, frame.Data...)
			s.mu.Unlock()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				s.mu.Lock()
				s.drainErr = err
				s.mu.Unlock()
			}
		}
	}
}

// Done is closed once capture has ended and every buffered frame and error
// has been drained. It fires without Stop when the subprocess dies on its
// own, so callers can react to an early capture failure.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop ends the session and returns the captured PCM in arrival order. It is
// safe to call from a signal path and from the main flow at the same time:
// only the first call acts, later calls get the same result.
func (s *Session) Stop(ctx context.Context) ([]byte, error) {
	s.stopOnce.Do(func() {
		s.stopPCM, s.stopErr = s.stop(ctx)
	})
	return s.stopPCM, s.stopErr
}

func (s *Session) stop(ctx context.Context) ([]byte, error) {
	if s.recorder != nil {
		s.recorder.Stop()
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		if s.recorder != nil {
			s.recorder.Kill()
		}
		return nil, ErrStopTimeout
	case <-ctx.Done():
		if s.recorder != nil {
			s.recorder.Kill()
		}
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buf) == 0 {
		if s.drainErr != nil {
			return nil, s.drainErr
		}
		return nil, ErrNoAudioCaptured
	}
	return s.buf, nil
}
