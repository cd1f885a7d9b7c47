package booking

import (
	"time"

	"github.com/google/uuid"
)

// ListingSummary carries the listing display fields joined onto a booking.
type ListingSummary struct {
	Title    string `json:"title"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ImageURL string `json:"image_url,omitempty"`
}

// RenterSummary carries the renter display fields shown to hosts.
type RenterSummary struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// BookingView is a read-only booking enriched for display.
type BookingView struct {
	ID          uuid.UUID      `json:"id"`
	ListingID   uuid.UUID      `json:"listing_id"`
	UserID      uuid.UUID      `json:"user_id"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	Status      BookingStatus  `json:"status"`
	TotalPrice  Price          `json:"total_price"`
	VehicleInfo *VehicleInfo   `json:"vehicle_info,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Listing     ListingSummary `json:"listing"`
	Renter      *RenterSummary `json:"renter,omitempty"`
}
