package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Classified failure markers for provider calls. Adapters tag every error
// with exactly one of these so callers can route on errors.Is without
// inspecting vendor-specific details.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrRateLimited       = errors.New("rate limited")
	ErrTimeout           = errors.New("timeout")
	ErrTransient         = errors.New("transient failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// Wrap builds an error message that includes provider context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, provider, operation, message string, err error) error {
	detail := buildDetail(provider, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether an error class is eligible for bounded retry
// inside an adapter. Only transient and rate-limit failures qualify; auth,
// timeout, and malformed-response errors repeat identically on retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

// ClassifyStatus maps an HTTP response status to a failure marker.
func ClassifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthenticated
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code >= http.StatusInternalServerError:
		return ErrTransient
	default:
		return ErrTransient
	}
}

// ClassifyNetErr maps a transport-level error to a failure marker. Context
// cancellation and deadline expiry count as timeouts; everything else on the
// wire is transient.
func ClassifyNetErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrTransient
}

// UserMessage renders a classified error as guidance suitable for direct
// display, distinguishing credential problems from service flakiness.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "The AI service rejected the configured credentials. Check your API keys."
	case errors.Is(err, ErrRateLimited):
		return "The AI service is rate limiting requests. Wait a moment and try again."
	case errors.Is(err, ErrTimeout):
		return "The AI service timed out. Try again."
	case errors.Is(err, ErrMalformedResponse):
		return "The AI service returned content that could not be parsed."
	default:
		return "The AI service failed. Try again."
	}
}

func buildDetail(provider, operation, message string) string {
	parts := make([]string, 0, 3)
	if provider = strings.TrimSpace(provider); provider != "" {
		parts = append(parts, provider)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "provider failure"
	}
	return strings.Join(parts, ": ")
}
