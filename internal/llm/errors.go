package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured indicates no API key or endpoint was provided.
	ErrNotConfigured = errors.New("llm gateway not configured")

	// ErrRateLimited is returned when the gateway answers 429.
	ErrRateLimited = errors.New("llm gateway rate limited")

	// ErrCreditsExhausted is returned when the gateway answers 402.
	ErrCreditsExhausted = errors.New("llm gateway credits exhausted")

	// ErrModelLoading is returned when the upstream answers 503.
	ErrModelLoading = errors.New("llm model is loading")

	// ErrUpstream covers any other failed gateway call.
	ErrUpstream = errors.New("llm request failed")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)

// statusError classifies a non-2xx gateway status.
func statusError(status int, body []byte) error {
	const maxBody = 256
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	var sentinel error
	switch status {
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case http.StatusPaymentRequired:
		sentinel = ErrCreditsExhausted
	case http.StatusServiceUnavailable:
		sentinel = ErrModelLoading
	default:
		sentinel = ErrUpstream
	}
	return fmt.Errorf("%w: status %d: %s", sentinel, status, body)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrCreditsExhausted):
		return "CREDITS_EXHAUSTED"
	case errors.Is(err, ErrModelLoading):
		return "MODEL_LOADING"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	default:
		return "UPSTREAM"
	}
}
