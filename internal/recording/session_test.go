package recording

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeSession builds a Session fed from test-controlled channels instead of
// a real pw-record subprocess.
func fakeSession() (*Session, chan AudioFrame, chan error) {
	frames := make(chan AudioFrame, 16)
	errs := make(chan error, 1)
	return newSession(nil, frames, errs), frames, errs
}

func TestSessionStop_NoAudio(t *testing.T) {
	s, frames, errs := fakeSession()
	close(frames)
	close(errs)

	_, err := s.Stop(context.Background())
	if !errors.Is(err, ErrNoAudioCaptured) {
		t.Errorf("expected ErrNoAudioCaptured, got: %v", err)
	}
}

func TestSessionStop_ConcatenatesInOrder(t *testing.T) {
	s, frames, errs := fakeSession()

	chunks := [][]byte{
		{0x01, 0x02},
		{0x03},
		{0x04, 0x05, 0x06},
	}
	for _, c := range chunks {
		frames <- AudioFrame{Data: c, Timestamp: time.Now()}
	}
	close(frames)
	close(errs)

	pcm, err := s.Stop(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if !bytes.Equal(pcm, want) {
		t.Errorf("expected chunks concatenated in arrival order %v, got %v", want, pcm)
	}
}

func TestSessionStop_OneShot(t *testing.T) {
	s, frames, errs := fakeSession()
	frames <- AudioFrame{Data: []byte{0xAA}, Timestamp: time.Now()}
	close(frames)
	close(errs)

	first, err := s.Stop(context.Background())
	if err != nil {
		t.Fatalf("first stop failed: %v", err)
	}

	// a racing second stop (e.g. repeated SIGINT) returns the same result
	second, err := s.Stop(context.Background())
	if err != nil {
		t.Fatalf("second stop failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated stop should return the first result")
	}
}

func TestSessionStop_CaptureErrorWithNoData(t *testing.T) {
	s, frames, errs := fakeSession()
	captureErr := errors.New("read audio: broken pipe")
	errs <- captureErr
	close(frames)
	close(errs)

	_, err := s.Stop(context.Background())
	if err == nil {
		t.Fatal("expected error when capture failed with no data")
	}
	if !errors.Is(err, captureErr) {
		t.Errorf("expected the capture error to surface, got: %v", err)
	}
}

func TestSessionStop_DataBeatsLateError(t *testing.T) {
	// data that arrived before the failure is still returned
	s, frames, errs := fakeSession()
	frames <- AudioFrame{Data: []byte{0x10, 0x20}, Timestamp: time.Now()}
	errs <- errors.New("process exited unexpectedly")
	close(frames)
	close(errs)

	pcm, err := s.Stop(context.Background())
	if err != nil {
		t.Fatalf("expected captured data despite late error, got: %v", err)
	}
	if !bytes.Equal(pcm, []byte{0x10, 0x20}) {
		t.Errorf("expected buffered data, got %v", pcm)
	}
}

func TestSessionStop_GracePeriodExceeded(t *testing.T) {
	s, _, _ := fakeSession() // channels never closed: collector never finishes
	s.grace = 10 * time.Millisecond

	_, err := s.Stop(context.Background())
	if !errors.Is(err, ErrStopTimeout) {
		t.Errorf("expected ErrStopTimeout, got: %v", err)
	}

	// the timeout result is latched like any other stop result
	_, err = s.Stop(context.Background())
	if !errors.Is(err, ErrStopTimeout) {
		t.Errorf("repeated stop should return the latched timeout, got: %v", err)
	}
}

func TestSessionDone_FiresWhenCaptureEnds(t *testing.T) {
	s, frames, errs := fakeSession()

	select {
	case <-s.Done():
		t.Fatal("done should not fire while capture is live")
	default:
	}

	errs <- errors.New("pw-record exited unexpectedly")
	close(frames)
	close(errs)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("done should fire once the capture channels drain")
	}

	// a stop after the early exit reports the capture failure
	_, err := s.Stop(context.Background())
	if err == nil || !strings.Contains(err.Error(), "exited unexpectedly") {
		t.Errorf("expected the capture error to surface, got: %v", err)
	}
}

func TestSessionStop_ContextCancelled(t *testing.T) {
	s, _, _ := fakeSession() // channels never closed: collector never finishes

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Stop(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestSessionStop_ConcurrentStops(t *testing.T) {
	s, frames, errs := fakeSession()
	frames <- AudioFrame{Data: []byte{0x01}, Timestamp: time.Now()}
	close(frames)
	close(errs)

	results := make(chan []byte, 2)
	for i := 0; i < 2; i++ {
		go func() {
			pcm, _ := s.Stop(context.Background())
			results <- pcm
		}()
	}

	a := <-results
	b := <-results
	if !bytes.Equal(a, b) {
		t.Error("concurrent stops should observe identical results")
	}
}
