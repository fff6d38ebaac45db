// Package util holds retry helpers shared by the embedding and generation
// clients.
package util

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// CalculateBackoff returns exponential backoff with jitter. The base delay
// doubles each attempt, capped at 30 seconds, with random jitter of up to
// 25% in either direction.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// IsTransient reports whether an API call failure is worth retrying.
// Rate limits, server-side errors, and network timeouts are transient;
// anything else (bad credentials, malformed request) fails immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
