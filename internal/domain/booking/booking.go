package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id          uuid.UUID
	listingID   uuid.UUID
	userID      uuid.UUID
	timeRange   TimeRange
	status      BookingStatus
	totalPrice  Price
	vehicleInfo *VehicleInfo

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new pending Booking. The price is fixed here and
// never recomputed.
func NewBooking(
	listingID uuid.UUID,
	userID uuid.UUID,
	timeRange TimeRange,
	totalPrice Price,
	vehicleInfo *VehicleInfo,
) (*Booking, error) {
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if !timeRange.End.After(timeRange.Start) {
		return nil, ErrInvalidRange
	}
	if totalPrice < 0 {
		return nil, domain.NewValidationError("total price must not be negative")
	}
	if vehicleInfo != nil {
		v := vehicleInfo.Normalize()
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if v.IsZero() {
			vehicleInfo = nil
		} else {
			vehicleInfo = &v
		}
	}

	now := time.Now().UTC()
	return &Booking{
		id:          uuid.New(),
		listingID:   listingID,
		userID:      userID,
		timeRange:   timeRange,
		status:      StatusPending,
		totalPrice:  totalPrice,
		vehicleInfo: vehicleInfo,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	listingID uuid.UUID,
	userID uuid.UUID,
	timeRange TimeRange,
	status BookingStatus,
	totalPrice Price,
	vehicleInfo *VehicleInfo,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		listingID:   listingID,
		userID:      userID,
		timeRange:   timeRange,
		status:      status,
		totalPrice:  totalPrice,
		vehicleInfo: vehicleInfo,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ListingID returns the booked listing.
func (b *Booking) ListingID() uuid.UUID { return b.listingID }

// UserID returns the renter's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// TimeRange returns the reserved interval.
func (b *Booking) TimeRange() TimeRange { return b.timeRange }

func (b *Booking) StartTime() time.Time { return b.timeRange.Start }
func (b *Booking) EndTime() time.Time   { return b.timeRange.End }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// TotalPrice returns the price fixed at creation.
func (b *Booking) TotalPrice() Price { return b.totalPrice }

// VehicleInfo returns the vehicle description, or nil if none was given.
func (b *Booking) VehicleInfo() *VehicleInfo { return b.vehicleInfo }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionTo moves the booking to target on behalf of an actor holding roles.
func (b *Booking) TransitionTo(target BookingStatus, roles Role) error {
	if err := AuthorizeTransition(b.status, target, roles); err != nil {
		return err
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
