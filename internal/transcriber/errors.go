package transcriber

import (
	"errors"
	"fmt"
)

// RetryExhaustedError reports that every transcription attempt failed. It
// carries the final attempt's error.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	if e == nil {
		return "transcription retries exhausted"
	}
	return fmt.Sprintf("transcription failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsRetryExhausted(err error) bool {
	var exhausted *RetryExhaustedError
	return errors.As(err, &exhausted)
}
