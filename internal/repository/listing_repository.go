package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	listingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/listing"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// ListingModel is the GORM model for the listings projection table.
type ListingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string    `gorm:"type:varchar(200);not null;default:''"`
	Address    string    `gorm:"type:text;not null;default:''"`
	City       string    `gorm:"type:varchar(100);not null;default:''"`
	ImageURL   string    `gorm:"type:text;not null;default:''"`
	HourlyRate float64   `gorm:"type:numeric(10,2);not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	UpdatedAt  time.Time `gorm:"type:timestamptz;not null"`
}

func (ListingModel) TableName() string { return "listings" }

// GormListingRepository implements ListingRepository using GORM.
type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return toListingDomain(&model), nil
}

// Upsert writes the snapshot; an older snapshot never overwrites a newer one.
func (r *GormListingRepository) Upsert(ctx context.Context, l *listingDomain.Listing) error {
	model := toListingModel(l)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_id", "title", "address", "city", "image_url", "hourly_rate", "is_active", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "listings.updated_at <= EXCLUDED.updated_at"},
		}},
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}
	return nil
}

func toListingModel(l *listingDomain.Listing) *ListingModel {
	return &ListingModel{
		ID:         l.ID(),
		OwnerID:    l.OwnerID(),
		Title:      l.Title(),
		Address:    l.Address(),
		City:       l.City(),
		ImageURL:   l.ImageURL(),
		HourlyRate: l.HourlyRate(),
		IsActive:   l.IsActive(),
		UpdatedAt:  l.UpdatedAt(),
	}
}

func toListingDomain(m *ListingModel) *listingDomain.Listing {
	return listingDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Title, m.Address, m.City, m.ImageURL,
		m.HourlyRate,
		m.IsActive,
		m.UpdatedAt,
	)
}
