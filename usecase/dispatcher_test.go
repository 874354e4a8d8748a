package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
)

func TestDispatcher_Execute(t *testing.T) {
	d := NewDispatcher()
	d.Register("echo", func(_ context.Context, userID string, payload json.RawMessage) (interface{}, error) {
		return userID + ":" + string(payload), nil
	})

	out, err := d.Execute(context.Background(), "echo", "user-1", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `user-1:{"a":1}`, out)
	assert.Equal(t, []string{"echo"}, d.Actions())
}

func TestDispatcher_UnknownAction(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Execute(context.Background(), "fly", "user-1", nil)

	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Equal(t, "Unknown action: fly", domain.ErrorMessage(err))
}

func TestDecodePayload(t *testing.T) {
	type input struct {
		GoalID string `json:"goalId"`
	}

	got, err := DecodePayload[input](json.RawMessage(`{"goalId":"g1"}`))
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GoalID)

	_, err = DecodePayload[input](json.RawMessage(`[1,2`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestWrapAIError(t *testing.T) {
	tests := []struct {
		in      error
		code    domain.ErrorCode
		message string
	}{
		{llm.ErrRateLimited, domain.ErrCodeRateLimited, "Rate limits exceeded. Please try again later."},
		{llm.ErrCreditsExhausted, domain.ErrCodePaymentRequired, "AI credits exhausted. Please add credits."},
		{llm.ErrNotConfigured, domain.ErrCodeNotConfigured, "AI service not configured"},
		{llm.ErrInvalidOutput, domain.ErrCodeInvalidModelOutput, "AI returned an invalid response"},
		{llm.ErrUpstream, domain.ErrCodeInternal, "AI request failed"},
	}
	for _, tt := range tests {
		err := WrapAIError(tt.in)
		assert.True(t, domain.IsDomainError(err, tt.code), tt.in.Error())
		assert.Equal(t, tt.message, domain.ErrorMessage(err))
		assert.ErrorIs(t, err, tt.in)
	}

	assert.Same(t, domain.ErrGoalNotFound, WrapAIError(domain.ErrGoalNotFound))
	assert.NoError(t, WrapAIError(nil))
}

func TestWrapChatError(t *testing.T) {
	err := WrapChatError(llm.ErrModelLoading)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.Equal(t, "Model is loading. Please try again in a moment.", domain.ErrorMessage(err))

	err = WrapChatError(llm.ErrRateLimited)
	assert.Equal(t, "Rate limit exceeded. Please try again in a moment.", domain.ErrorMessage(err))

	err = WrapChatError(llm.ErrUpstream)
	assert.Equal(t, "AI service error. Please try again.", domain.ErrorMessage(err))
}
