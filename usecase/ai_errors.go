package usecase

import (
	"errors"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
)

// WrapAIError translates gateway failures into domain errors carrying the
// messages shown to users. Domain errors pass through untouched.
func WrapAIError(err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return domain.WrapError(domain.ErrCodeNotConfigured, domain.ErrAINotConfigured.Message, err)
	case errors.Is(err, llm.ErrRateLimited):
		return domain.WrapError(domain.ErrCodeRateLimited, "Rate limits exceeded. Please try again later.", err)
	case errors.Is(err, llm.ErrCreditsExhausted):
		return domain.WrapError(domain.ErrCodePaymentRequired, "AI credits exhausted. Please add credits.", err)
	case errors.Is(err, llm.ErrInvalidOutput):
		return domain.WrapError(domain.ErrCodeInvalidModelOutput, "AI returned an invalid response", err)
	default:
		return domain.WrapError(domain.ErrCodeInternal, "AI request failed", err)
	}
}

// WrapChatError is WrapAIError for the streaming chat upstream, whose
// messages differ and which can report a loading model.
func WrapChatError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return domain.WrapError(domain.ErrCodeNotConfigured, domain.ErrAINotConfigured.Message, err)
	case errors.Is(err, llm.ErrRateLimited):
		return domain.WrapError(domain.ErrCodeRateLimited, "Rate limit exceeded. Please try again in a moment.", err)
	case errors.Is(err, llm.ErrModelLoading):
		return domain.WrapError(domain.ErrCodeUnavailable, "Model is loading. Please try again in a moment.", err)
	case errors.Is(err, llm.ErrCreditsExhausted):
		return domain.WrapError(domain.ErrCodePaymentRequired, "AI credits exhausted. Please add credits.", err)
	default:
		return domain.WrapError(domain.ErrCodeInternal, "AI service error. Please try again.", err)
	}
}
