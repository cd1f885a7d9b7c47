package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// Postgres SQLSTATE for exclusion_violation.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ListingID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_bookings_listing_time,priority:1"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartTime   time.Time       `gorm:"type:timestamptz;not null;index:idx_bookings_listing_time,priority:2"`
	EndTime     time.Time       `gorm:"type:timestamptz;not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	TotalPrice  float64         `gorm:"type:numeric(12,2);not null"`
	VehicleInfo json.RawMessage `gorm:"type:jsonb"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// HasOverlap reports whether an occupying booking on the listing overlaps tr.
func (r *GormBookingRepository) HasOverlap(ctx context.Context, listingID uuid.UUID, tr bookingDomain.TimeRange) (bool, error) {
	n, err := countOverlapping(r.db.WithContext(ctx), listingID, tr)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return n > 0, nil
}

// SaveExclusive locks the listing row, re-runs the overlap query and
// inserts, all in one transaction. The bookings_no_overlap exclusion
// constraint rejects anything that slips past the lock.
func (r *GormBookingRepository) SaveExclusive(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing ListingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.ListingID).
			Take(&listing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Listing", model.ListingID.String())
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}
		if !listing.IsActive {
			return domain.NewNotFoundError("Listing", model.ListingID.String())
		}

		n, err := countOverlapping(tx, model.ListingID, bk.TimeRange())
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}
		if n > 0 {
			return bookingDomain.ErrNotAvailable
		}

		return tx.Create(model).Error
	})
	if err == nil {
		return nil
	}
	if isExclusionViolation(err) {
		return bookingDomain.ErrNotAvailable
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("failed to save booking: %w", err)
}

// Transition selects the booking FOR UPDATE, reads the listing owner on the
// same connection, applies mutate and writes the result with an optimistic
// version guard in the same transaction.
func (r *GormBookingRepository) Transition(ctx context.Context, id uuid.UUID, mutate bookingDomain.TransitionFunc) (*bookingDomain.Booking, error) {
	var out *bookingDomain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Booking", id.String())
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}

		var owner ListingModel
		if err := tx.Select("owner_id").
			Where("id = ?", model.ListingID).
			Take(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Listing", model.ListingID.String())
			}
			return fmt.Errorf("failed to resolve listing owner: %w", err)
		}

		bk, err := toDomainBooking(&model)
		if err != nil {
			return err
		}
		if err := mutate(bk, owner.OwnerID); err != nil {
			return err
		}

		expectedVersion := bk.Version()
		bk.IncrementVersion()
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", id, expectedVersion).
			Updates(map[string]interface{}{
				"status":     string(bk.Status()),
				"version":    bk.Version(),
				"updated_at": bk.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}
		out = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func countOverlapping(db *gorm.DB, listingID uuid.UUID, tr bookingDomain.TimeRange) (int64, error) {
	var n int64
	err := db.Model(&BookingModel{}).
		Where("listing_id = ? AND status IN ?", listingID, occupyingStatuses()).
		Where("start_time < ? AND end_time > ?", tr.End, tr.Start).
		Count(&n).Error
	return n, err
}

func occupyingStatuses() []string {
	out := make([]string, len(bookingDomain.OccupyingStatuses))
	for i, s := range bookingDomain.OccupyingStatuses {
		out[i] = string(s)
	}
	return out
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	var vehicleJSON json.RawMessage
	if v := bk.VehicleInfo(); v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal vehicle info: %w", err)
		}
		vehicleJSON = data
	}

	return &BookingModel{
		ID:          bk.ID(),
		ListingID:   bk.ListingID(),
		UserID:      bk.UserID(),
		StartTime:   bk.StartTime(),
		EndTime:     bk.EndTime(),
		Status:      string(bk.Status()),
		TotalPrice:  bk.TotalPrice().Float64(),
		VehicleInfo: vehicleJSON,
		Version:     bk.Version(),
		CreatedAt:   bk.CreatedAt(),
		UpdatedAt:   bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	vehicleInfo, err := decodeVehicleInfo(m.VehicleInfo)
	if err != nil {
		return nil, err
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ListingID,
		m.UserID,
		bookingDomain.TimeRange{Start: m.StartTime.UTC(), End: m.EndTime.UTC()},
		status,
		bookingDomain.RoundPrice(m.TotalPrice),
		vehicleInfo,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func decodeVehicleInfo(raw []byte) (*bookingDomain.VehicleInfo, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v bookingDomain.VehicleInfo
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle info: %w", err)
	}
	return &v, nil
}
