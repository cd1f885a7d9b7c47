package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	listingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/listing"
	profileDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/profile"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// ListingUpsertedEvent is the payload of listing.upserted.
type ListingUpsertedEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Title      string    `json:"title"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	ImageURL   string    `json:"image_url"`
	HourlyRate float64   `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingRemovedEvent is the payload of listing.removed.
type ListingRemovedEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProfileUpsertedEvent is the payload of profile.upserted.
type ProfileUpsertedEvent struct {
	ProfileID  uuid.UUID `json:"profile_id"`
	FullName   string    `json:"full_name"`
	AvatarURL  string    `json:"avatar_url"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProjectionService maintains the local listing and profile read models.
// Existing bookings keep their price when a listing's rate changes.
type ProjectionService struct {
	listings listingDomain.ListingRepository
	profiles profileDomain.ProfileRepository
	logger   *zap.Logger
}

// NewProjectionService creates a new ProjectionService.
func NewProjectionService(
	listings listingDomain.ListingRepository,
	profiles profileDomain.ProfileRepository,
	logger *zap.Logger,
) *ProjectionService {
	return &ProjectionService{listings: listings, profiles: profiles, logger: logger}
}

// UpsertListing stores a listing snapshot.
func (s *ProjectionService) UpsertListing(ctx context.Context, evt ListingUpsertedEvent) error {
	l, err := listingDomain.NewListing(
		evt.ListingID, evt.OwnerID,
		evt.Title, evt.Address, evt.City, evt.ImageURL,
		evt.HourlyRate, evt.IsActive, evt.OccurredAt,
	)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	if err := s.listings.Upsert(ctx, l); err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}
	s.logger.Debug("listing projection updated", zap.String("listing_id", evt.ListingID.String()))
	return nil
}

// RemoveListing marks a listing inactive. Unknown listings are ignored.
func (s *ProjectionService) RemoveListing(ctx context.Context, evt ListingRemovedEvent) error {
	l, err := s.listings.FindByID(ctx, evt.ListingID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("listing.removed for unknown listing", zap.String("listing_id", evt.ListingID.String()))
			return nil
		}
		return err
	}
	at := evt.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	l.Deactivate(at)
	if err := s.listings.Upsert(ctx, l); err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	return nil
}

// UpsertProfile stores a profile snapshot.
func (s *ProjectionService) UpsertProfile(ctx context.Context, evt ProfileUpsertedEvent) error {
	p, err := profileDomain.NewProfile(evt.ProfileID, evt.FullName, evt.AvatarURL, evt.OccurredAt)
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
