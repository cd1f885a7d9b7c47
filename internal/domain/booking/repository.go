package booking

import (
	"context"

	"github.com/google/uuid"
)

// TransitionFunc changes a locked booking. hostID is the owner of the
// booking's listing, read in the same transaction.
type TransitionFunc func(b *Booking, hostID uuid.UUID) error

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// HasOverlap reports whether an occupying booking on the listing
	// overlaps r. It gives no exclusivity guarantee.
	HasOverlap(ctx context.Context, listingID uuid.UUID, r TimeRange) (bool, error)

	// SaveExclusive inserts a new booking only if no occupying booking on
	// the same listing overlaps it, as one atomic unit. Returns
	// ErrNotAvailable when the slot is taken.
	SaveExclusive(ctx context.Context, booking *Booking) error

	// Transition loads the booking under a lock together with the owner of
	// its listing, applies mutate and persists the result in the same
	// transaction. A mutate error aborts the write and is returned unchanged.
	Transition(ctx context.Context, id uuid.UUID, mutate TransitionFunc) (*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// QueryRepository serves the enriched, access-scoped booking listings.
type QueryRepository interface {
	// ListByRenter returns bookings made by renterID, newest start first.
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]BookingView, error)

	// ListByHost returns bookings on listings owned by hostID, newest start first.
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]BookingView, error)
}
