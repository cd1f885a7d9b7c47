package listing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrListingNotFound is returned when a listing is unknown locally.
var ErrListingNotFound = errors.New("listing not found")

// Listing is the local read model of a host's parking space. The listing
// catalogue owns it; this service keeps a projection fed by listing events.
type Listing struct {
	id         uuid.UUID
	ownerID    uuid.UUID
	title      string
	address    string
	city       string
	imageURL   string
	hourlyRate float64
	active     bool
	updatedAt  time.Time
}

// NewListing validates a listing snapshot received from the catalogue.
func NewListing(
	id, ownerID uuid.UUID,
	title, address, city, imageURL string,
	hourlyRate float64,
	active bool,
	updatedAt time.Time,
) (*Listing, error) {
	if id == uuid.Nil {
		return nil, errors.New("listing ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, errors.New("owner ID is required")
	}
	if hourlyRate < 0 {
		return nil, errors.New("hourly rate must not be negative")
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return Reconstruct(id, ownerID, title, address, city, imageURL, hourlyRate, active, updatedAt.UTC()), nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	title, address, city, imageURL string,
	hourlyRate float64,
	active bool,
	updatedAt time.Time,
) *Listing {
	return &Listing{
		id:         id,
		ownerID:    ownerID,
		title:      title,
		address:    address,
		city:       city,
		imageURL:   imageURL,
		hourlyRate: hourlyRate,
		active:     active,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID        { return l.id }
func (l *Listing) OwnerID() uuid.UUID   { return l.ownerID }
func (l *Listing) Title() string        { return l.title }
func (l *Listing) Address() string      { return l.address }
func (l *Listing) City() string         { return l.city }
func (l *Listing) ImageURL() string     { return l.imageURL }
func (l *Listing) HourlyRate() float64  { return l.hourlyRate }
func (l *Listing) IsActive() bool       { return l.active }
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// IsOwnedBy checks if the listing belongs to the given host.
func (l *Listing) IsOwnedBy(ownerID uuid.UUID) bool {
	return l.ownerID == ownerID
}

// Deactivate marks the listing as no longer bookable.
func (l *Listing) Deactivate(at time.Time) {
	l.active = false
	l.updatedAt = at.UTC()
}
