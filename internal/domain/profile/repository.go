package profile

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines persistence operations for the profile projection.
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}
