package booking

import "time"

// TimeRange is a half-open interval [Start, End) normalised to UTC.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates end > start and returns the range in UTC.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether the two ranges share any instant. Touching
// endpoints do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
