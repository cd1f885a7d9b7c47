package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_FollowsWrapping(t *testing.T) {
	base := NewConflictError("slot taken")
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.True(t, IsConflict(wrapped))
	assert.True(t, errors.Is(wrapped, base))
}

func TestCodeOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestNewInvalidStateError_Message(t *testing.T) {
	err := NewInvalidStateError("completed", "cancelled")
	assert.Equal(t, "cannot transition from completed to cancelled", err.Error())
	assert.True(t, IsInvalidState(err))
}

func TestNewPaginatedResult(t *testing.T) {
	res := NewPaginatedResult([]int{1, 2}, 45, 2, 20)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 2)

	empty := NewPaginatedResult[int](nil, 0, 1, 20)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
