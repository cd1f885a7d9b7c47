package listing

import (
	"context"

	"github.com/google/uuid"
)

// ListingRepository defines persistence operations for the listing projection.
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// Upsert stores the snapshot unless a newer one is already stored.
	Upsert(ctx context.Context, listing *Listing) error
}
