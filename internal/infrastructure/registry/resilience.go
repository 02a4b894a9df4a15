package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/relicta-tech/resolvo/internal/domain/version"
	rerrors "github.com/relicta-tech/resolvo/internal/errors"
)

// answer is the unit of work a lookup produces.
type answer struct {
	version version.Version
	found   bool
}

// RetryConfig configures transient-failure retries for lookups. A run
// checking dozens of packages should not die on one flaky 503.
type RetryConfig struct {
	Attempts    int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns the retry posture used by the plan command.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:    3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
	}
}

// newRetrier builds the retrier with exponential backoff and jitter.
// Fewer than two attempts disables retrying.
func newRetrier(cfg RetryConfig) retry.Retry[answer] {
	if cfg.Attempts < 2 {
		return nil
	}
	return retry.New[answer](retry.Config{
		MaxAttempts:   cfg.Attempts,
		InitialDelay:  cfg.InitialWait,
		MaxDelay:      cfg.MaxWait,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    2.0,
		Jitter:        true,
		IsRetryable:   isRetryableError,
	})
}

// isRetryableError reports whether a lookup failure is transient. The
// status-code matching follows the messages fetch produces.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if rerrors.IsRecoverable(err) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "too many requests") {
		return true
	}
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") {
		return true
	}
	return strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary")
}
