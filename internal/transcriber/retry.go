package transcriber

import (
	"context"
	"log"
	"time"
)

// DefaultMaxAttempts bounds the transcription retry loop.
const DefaultMaxAttempts = 3

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 10 * time.Second
)

// TranscribeWithRetry attempts a.Transcribe up to maxAttempts times with
// exponential backoff between attempts (1s base, doubling, 10s cap, no
// jitter). Every error kind is retried identically; on exhaustion the last
// error is wrapped in a RetryExhaustedError.
func TranscribeWithRetry(ctx context.Context, a Adapter, pcm []byte, maxAttempts int) (string, error) {
	return transcribeWithRetry(ctx, a, pcm, maxAttempts, retryBaseDelay, retryMaxDelay)
}

func transcribeWithRetry(ctx context.Context, a Adapter, pcm []byte, maxAttempts int, baseDelay, maxDelay time.Duration) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			// double up to the cap; stopping early keeps large bases or
			// attempt counts from overflowing the duration
			delay := baseDelay
			for i := 1; i < attempt && delay < maxDelay; i++ {
				delay *= 2
			}
			if delay > maxDelay {
				delay = maxDelay
			}
			log.Printf("transcriber: attempt %d/%d failed, retrying in %v: %v",
				attempt, maxAttempts, delay, lastErr)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := a.Transcribe(ctx, pcm)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", &RetryExhaustedError{Attempts: maxAttempts, Err: lastErr}
}
