package application

import (
	"context"

	"github.com/google/uuid"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
)

// BookingQueryService serves the renter and host booking lists.
type BookingQueryService struct {
	repo bookingDomain.QueryRepository
}

// NewBookingQueryService creates a new BookingQueryService.
func NewBookingQueryService(repo bookingDomain.QueryRepository) *BookingQueryService {
	return &BookingQueryService{repo: repo}
}

// ListForRenter returns the caller's own bookings with listing details.
func (s *BookingQueryService) ListForRenter(ctx context.Context, renterID uuid.UUID) ([]bookingDomain.BookingView, error) {
	ctx, span := tracer.Start(ctx, "BookingQueryService.ListForRenter")
	defer span.End()

	views, err := s.repo.ListByRenter(ctx, renterID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return views, nil
}

// ListForHost returns bookings on the caller's listings with renter details.
func (s *BookingQueryService) ListForHost(ctx context.Context, hostID uuid.UUID) ([]bookingDomain.BookingView, error) {
	ctx, span := tracer.Start(ctx, "BookingQueryService.ListForHost")
	defer span.End()

	views, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return views, nil
}
