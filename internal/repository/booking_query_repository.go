package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
)

const renterBookingsQuery = `
SELECT b.id, b.listing_id, b.user_id, b.start_time, b.end_time, b.status,
       b.total_price, b.vehicle_info, b.created_at,
       l.title AS listing_title, l.address AS listing_address,
       l.city AS listing_city, l.image_url AS listing_image_url
FROM bookings b
JOIN listings l ON l.id = b.listing_id
WHERE b.user_id = $1
ORDER BY b.start_time DESC`

const hostBookingsQuery = `
SELECT b.id, b.listing_id, b.user_id, b.start_time, b.end_time, b.status,
       b.total_price, b.vehicle_info, b.created_at,
       l.title AS listing_title, l.address AS listing_address,
       l.city AS listing_city, l.image_url AS listing_image_url,
       COALESCE(p.full_name, '') AS renter_full_name,
       COALESCE(p.avatar_url, '') AS renter_avatar_url
FROM bookings b
JOIN listings l ON l.id = b.listing_id
LEFT JOIN profiles p ON p.id = b.user_id
WHERE l.owner_id = $1
ORDER BY b.start_time DESC`

type bookingViewRow struct {
	ID              uuid.UUID `db:"id"`
	ListingID       uuid.UUID `db:"listing_id"`
	UserID          uuid.UUID `db:"user_id"`
	StartTime       time.Time `db:"start_time"`
	EndTime         time.Time `db:"end_time"`
	Status          string    `db:"status"`
	TotalPrice      float64   `db:"total_price"`
	VehicleInfo     []byte    `db:"vehicle_info"`
	CreatedAt       time.Time `db:"created_at"`
	ListingTitle    string    `db:"listing_title"`
	ListingAddress  string    `db:"listing_address"`
	ListingCity     string    `db:"listing_city"`
	ListingImageURL string    `db:"listing_image_url"`
	RenterFullName  *string   `db:"renter_full_name"`
	RenterAvatarURL *string   `db:"renter_avatar_url"`
}

// SQLBookingQueryRepository serves the enriched booking listings with
// hand-written joins. The WHERE clause is the access boundary: a renter
// only sees rows with their user_id, a host only rows on listings they own.
type SQLBookingQueryRepository struct {
	db *sqlx.DB
}

// NewSQLBookingQueryRepository creates a new SQLBookingQueryRepository.
func NewSQLBookingQueryRepository(db *sqlx.DB) *SQLBookingQueryRepository {
	return &SQLBookingQueryRepository{db: db}
}

// ListByRenter returns bookings made by renterID, newest start first.
func (r *SQLBookingQueryRepository) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]bookingDomain.BookingView, error) {
	var rows []bookingViewRow
	if err := r.db.SelectContext(ctx, &rows, renterBookingsQuery, renterID); err != nil {
		return nil, fmt.Errorf("failed to list renter bookings: %w", err)
	}
	return toBookingViews(rows, false)
}

// ListByHost returns bookings on listings owned by hostID, newest start first.
func (r *SQLBookingQueryRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]bookingDomain.BookingView, error) {
	var rows []bookingViewRow
	if err := r.db.SelectContext(ctx, &rows, hostBookingsQuery, hostID); err != nil {
		return nil, fmt.Errorf("failed to list host bookings: %w", err)
	}
	return toBookingViews(rows, true)
}

func toBookingViews(rows []bookingViewRow, withRenter bool) ([]bookingDomain.BookingView, error) {
	views := make([]bookingDomain.BookingView, 0, len(rows))
	for _, row := range rows {
		vehicleInfo, err := decodeVehicleInfo(row.VehicleInfo)
		if err != nil {
			return nil, err
		}
		status, err := bookingDomain.ParseBookingStatus(row.Status)
		if err != nil {
			return nil, err
		}
		v := bookingDomain.BookingView{
			ID:          row.ID,
			ListingID:   row.ListingID,
			UserID:      row.UserID,
			StartTime:   row.StartTime.UTC(),
			EndTime:     row.EndTime.UTC(),
			Status:      status,
			TotalPrice:  bookingDomain.RoundPrice(row.TotalPrice),
			VehicleInfo: vehicleInfo,
			CreatedAt:   row.CreatedAt.UTC(),
			Listing: bookingDomain.ListingSummary{
				Title:    row.ListingTitle,
				Address:  row.ListingAddress,
				City:     row.ListingCity,
				ImageURL: row.ListingImageURL,
			},
		}
		if withRenter {
			v.Renter = &bookingDomain.RenterSummary{
				FullName:  deref(row.RenterFullName),
				AvatarURL: deref(row.RenterAvatarURL),
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
