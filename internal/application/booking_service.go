package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	listingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/listing"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

var tracer = otel.Tracer("github.com/realrohanroy/parknesting-sub000/internal/application")

// AvailabilityRequest asks whether a listing is free for a time range.
type AvailabilityRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// AvailabilityDTO is the availability answer.
type AvailabilityDTO struct {
	Available bool `json:"available"`
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ListingID   uuid.UUID                  `json:"listing_id" binding:"required"`
	StartTime   time.Time                  `json:"start_time" binding:"required"`
	EndTime     time.Time                  `json:"end_time" binding:"required"`
	VehicleInfo *bookingDomain.VehicleInfo `json:"vehicle_info"`
}

// UpdateStatusRequest asks to move a booking to a new status.
type UpdateStatusRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Status    string    `json:"status" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID          uuid.UUID                  `json:"id"`
	ListingID   uuid.UUID                  `json:"listing_id"`
	UserID      uuid.UUID                  `json:"user_id"`
	StartTime   time.Time                  `json:"start_time"`
	EndTime     time.Time                  `json:"end_time"`
	Status      string                     `json:"status"`
	TotalPrice  bookingDomain.Price        `json:"total_price"`
	VehicleInfo *bookingDomain.VehicleInfo `json:"vehicle_info,omitempty"`
	Version     int64                      `json:"version"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.BookingRepository
	listings listingDomain.ListingRepository
	pricing  bookingDomain.PricingStrategy
	notifier Notifier
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	pricing bookingDomain.PricingStrategy,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		listings: listings,
		pricing:  pricing,
		notifier: notifier,
		logger:   logger,
	}
}

// CheckAvailability reports whether no occupying booking overlaps the
// requested range. The answer is advisory; CreateBooking re-checks atomically.
func (s *BookingService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityDTO, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CheckAvailability",
		trace.WithAttributes(attribute.String("listing.id", req.ListingID.String())))
	defer span.End()

	tr, err := bookingDomain.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeListing(ctx, req.ListingID); err != nil {
		return nil, err
	}

	overlap, err := s.repo.HasOverlap(ctx, req.ListingID, tr)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return &AvailabilityDTO{Available: !overlap}, nil
}

// CreateBooking prices and persists a pending booking for renterID. The
// overlap check and insert run as one unit in the repository.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking",
		trace.WithAttributes(attribute.String("listing.id", req.ListingID.String())))
	defer span.End()

	tr, err := bookingDomain.NewTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	listing, err := s.activeListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	overlap, err := s.repo.HasOverlap(ctx, listing.ID(), tr)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	if overlap {
		return nil, bookingDomain.ErrNotAvailable
	}

	quote, err := s.pricing.Quote(tr.Start, tr.End, listing.HourlyRate())
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(listing.ID(), renterID, tr, quote.Price, req.VehicleInfo)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveExclusive(ctx, bk); err != nil {
		if !errors.Is(err, bookingDomain.ErrNotAvailable) {
			recordError(span, err)
		}
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("listing_id", listing.ID().String()),
		zap.String("renter_id", renterID.String()),
		zap.Float64("total_price", quote.Price.Float64()),
	)

	s.notifier.Dispatch(Notification{
		Type:        EventBookingCreated,
		RecipientID: listing.OwnerID(),
		Booking:     eventData(bk, listing.OwnerID(), renterID, ""),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// TransitionBooking moves a booking to a new status on behalf of actorID.
// Role resolution, the status check and the write happen in one
// repository transaction.
func (s *BookingService) TransitionBooking(ctx context.Context, actorID uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error) {
	ctx, span := tracer.Start(ctx, "BookingService.TransitionBooking",
		trace.WithAttributes(
			attribute.String("booking.id", req.BookingID.String()),
			attribute.String("booking.target_status", req.Status),
		))
	defer span.End()

	target, err := bookingDomain.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	var (
		hostID   uuid.UUID
		previous bookingDomain.BookingStatus
	)
	bk, err := s.repo.Transition(ctx, req.BookingID, func(b *bookingDomain.Booking, owner uuid.UUID) error {
		hostID = owner
		previous = b.Status()
		roles := bookingDomain.ResolveRoles(actorID, b.UserID(), hostID)
		return b.TransitionTo(target, roles)
	})
	if err != nil {
		if domain.CodeOf(err) == domain.CodeInternal {
			recordError(span, err)
		}
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.String("actor_id", actorID.String()),
	)

	s.notifyTransition(bk, previous, hostID, actorID)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking visible to its renter, the listing's host, or an admin.
func (s *BookingService) GetBooking(ctx context.Context, actorID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bk.UserID() != actorID {
		listing, err := s.listings.FindByID(ctx, bk.ListingID())
		if err != nil {
			return nil, err
		}
		if !listing.IsOwnedBy(actorID) {
			return nil, domain.NewForbiddenError("booking does not belong to this user")
		}
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func (s *BookingService) activeListing(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive() {
		return nil, domain.NewNotFoundError("Listing", id.String())
	}
	return listing, nil
}

// notifyTransition tells the counterparty: the renter hears about host
// decisions, and whoever did not cancel hears about a cancellation.
func (s *BookingService) notifyTransition(bk *bookingDomain.Booking, previous bookingDomain.BookingStatus, hostID, actorID uuid.UUID) {
	var (
		eventType string
		recipient uuid.UUID
	)
	switch bk.Status() {
	case bookingDomain.StatusConfirmed:
		eventType, recipient = EventBookingConfirmed, bk.UserID()
	case bookingDomain.StatusRejected:
		eventType, recipient = EventBookingRejected, bk.UserID()
	case bookingDomain.StatusCompleted:
		eventType, recipient = EventBookingCompleted, bk.UserID()
	case bookingDomain.StatusCancelled:
		eventType, recipient = EventBookingCancelled, hostID
		if actorID == hostID {
			recipient = bk.UserID()
		}
	default:
		return
	}
	if recipient == actorID {
		// Host acting on a booking of their own listing.
		return
	}

	data := eventData(bk, hostID, actorID, previous)
	s.notifier.Dispatch(Notification{Type: eventType, RecipientID: recipient, Booking: data})
}

func eventData(bk *bookingDomain.Booking, hostID, actorID uuid.UUID, previous bookingDomain.BookingStatus) BookingEventData {
	return BookingEventData{
		BookingID:      bk.ID(),
		ListingID:      bk.ListingID(),
		RenterID:       bk.UserID(),
		HostID:         hostID,
		ActorID:        actorID,
		Status:         string(bk.Status()),
		PreviousStatus: string(previous),
		StartTime:      bk.StartTime(),
		EndTime:        bk.EndTime(),
		TotalPrice:     bk.TotalPrice(),
		OccurredAt:     bk.UpdatedAt(),
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:          bk.ID(),
		ListingID:   bk.ListingID(),
		UserID:      bk.UserID(),
		StartTime:   bk.StartTime(),
		EndTime:     bk.EndTime(),
		Status:      string(bk.Status()),
		TotalPrice:  bk.TotalPrice(),
		VehicleInfo: bk.VehicleInfo(),
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
