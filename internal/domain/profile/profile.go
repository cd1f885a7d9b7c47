package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when a profile is unknown locally.
var ErrProfileNotFound = errors.New("profile not found")

// Profile holds the public display fields of a user.
type Profile struct {
	id        uuid.UUID
	fullName  string
	avatarURL string
	updatedAt time.Time
}

// NewProfile validates a profile snapshot.
func NewProfile(id uuid.UUID, fullName, avatarURL string, updatedAt time.Time) (*Profile, error) {
	if id == uuid.Nil {
		return nil, errors.New("profile ID is required")
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return Reconstruct(id, fullName, avatarURL, updatedAt.UTC()), nil
}

// Reconstruct rebuilds a Profile from persistence data (no validation).
func Reconstruct(id uuid.UUID, fullName, avatarURL string, updatedAt time.Time) *Profile {
	return &Profile{id: id, fullName: fullName, avatarURL: avatarURL, updatedAt: updatedAt}
}

func (p *Profile) ID() uuid.UUID        { return p.id }
func (p *Profile) FullName() string     { return p.fullName }
func (p *Profile) AvatarURL() string    { return p.avatarURL }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }
