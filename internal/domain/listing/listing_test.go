package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing(t *testing.T) {
	id, owner := uuid.New(), uuid.New()
	l, err := NewListing(id, owner, "Covered bay", "1 Main St", "Springfield", "", 12.5, true, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, id, l.ID())
	assert.True(t, l.IsOwnedBy(owner))
	assert.False(t, l.IsOwnedBy(uuid.New()))
	assert.True(t, l.IsActive())
	assert.False(t, l.UpdatedAt().IsZero())

	l.Deactivate(time.Now())
	assert.False(t, l.IsActive())
}

func TestNewListing_Validation(t *testing.T) {
	_, err := NewListing(uuid.Nil, uuid.New(), "", "", "", "", 1, true, time.Now())
	assert.Error(t, err)

	_, err = NewListing(uuid.New(), uuid.Nil, "", "", "", "", 1, true, time.Now())
	assert.Error(t, err)

	_, err = NewListing(uuid.New(), uuid.New(), "", "", "", "", -1, true, time.Now())
	assert.Error(t, err)
}
