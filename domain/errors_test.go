package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Goal not found", ErrorMessage(ErrGoalNotFound))
	assert.Equal(t, "Goal not found", ErrorMessage(fmt.Errorf("load goal: %w", ErrGoalNotFound)))
	assert.Equal(t, "upstream down", ErrorMessage(WrapError(ErrCodeUnavailable, "upstream down", errors.New("dial"))))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "", ErrorMessage(nil))

	msg := Message{Role: RoleUser, Content: "hi"}
	assert.Equal(t, RoleUser, msg.Role)
}
