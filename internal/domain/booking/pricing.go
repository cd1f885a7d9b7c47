package booking

import (
	"math"
	"strconv"
	"time"
)

const millisPerHour = 3_600_000

// Price is a monetary amount rounded to two decimal places. It always
// encodes with exactly two fractional digits.
type Price float64

// MarshalJSON encodes the price as a JSON number such as 200.00.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(p), 'f', 2, 64)), nil
}

// Float64 returns the raw value.
func (p Price) Float64() float64 { return float64(p) }

// Quote is the result of pricing a time range.
type Quote struct {
	Hours float64 `json:"hours"`
	Price Price   `json:"price"`
}

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Quote prices the range at the listing's hourly rate.
	Quote(start, end time.Time, hourlyRate float64) (Quote, error)
}

// HourlyPricingStrategy charges hours x rate, rounded to cents.
type HourlyPricingStrategy struct{}

// NewHourlyPricingStrategy creates a new HourlyPricingStrategy.
func NewHourlyPricingStrategy() *HourlyPricingStrategy {
	return &HourlyPricingStrategy{}
}

// Quote implements PricingStrategy.
func (s *HourlyPricingStrategy) Quote(start, end time.Time, hourlyRate float64) (Quote, error) {
	return ComputePrice(start, end, hourlyRate)
}

// ComputePrice turns a (start, end, rate) triple into a duration in hours
// and a total price rounded to two decimals.
func ComputePrice(start, end time.Time, hourlyRate float64) (Quote, error) {
	if !end.After(start) {
		return Quote{}, ErrInvalidRange
	}
	if hourlyRate < 0 || math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) {
		return Quote{}, ErrInvalidRate
	}
	hours := float64(end.Sub(start).Milliseconds()) / millisPerHour
	return Quote{Hours: hours, Price: RoundPrice(hours * hourlyRate)}, nil
}

// RoundPrice rounds v half away from zero to two decimal places.
func RoundPrice(v float64) Price {
	return Price(math.Round(v*100) / 100)
}
