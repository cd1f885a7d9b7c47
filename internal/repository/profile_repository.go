package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	profileDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/profile"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// ProfileModel is the GORM model for the profiles projection table.
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"type:varchar(200);not null;default:''"`
	AvatarURL string    `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (ProfileModel) TableName() string { return "profiles" }

// GormProfileRepository implements ProfileRepository using GORM.
type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	var m ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Profile", id.String())
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profileDomain.Reconstruct(m.ID, m.FullName, m.AvatarURL, m.UpdatedAt), nil
}

func (r *GormProfileRepository) Upsert(ctx context.Context, p *profileDomain.Profile) error {
	model := &ProfileModel{ID: p.ID(), FullName: p.FullName(), AvatarURL: p.AvatarURL(), UpdatedAt: p.UpdatedAt()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "profiles.updated_at <= EXCLUDED.updated_at"},
		}},
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
