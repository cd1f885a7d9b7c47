package booking

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestComputePrice_TwoHours(t *testing.T) {
	q, err := ComputePrice(mustTime(t, "2024-01-01T10:00:00Z"), mustTime(t, "2024-01-01T12:00:00Z"), 100)
	require.NoError(t, err)
	assert.Equal(t, 2.0, q.Hours)
	assert.Equal(t, Price(200), q.Price)
}

func TestComputePrice_InvalidRange(t *testing.T) {
	_, err := ComputePrice(mustTime(t, "2024-01-01T10:00:00Z"), mustTime(t, "2024-01-01T09:00:00Z"), 100)
	assert.ErrorIs(t, err, ErrInvalidRange)

	same := mustTime(t, "2024-01-01T10:00:00Z")
	_, err = ComputePrice(same, same, 100)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputePrice_InvalidRate(t *testing.T) {
	_, err := ComputePrice(mustTime(t, "2024-01-01T10:00:00Z"), mustTime(t, "2024-01-01T11:00:00Z"), -1)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestComputePrice_ZeroRate(t *testing.T) {
	q, err := ComputePrice(mustTime(t, "2024-01-01T10:00:00Z"), mustTime(t, "2024-01-01T11:00:00Z"), 0)
	require.NoError(t, err)
	assert.Equal(t, Price(0), q.Price)
}

func TestComputePrice_RoundsToCents(t *testing.T) {
	start := mustTime(t, "2024-01-01T10:00:00Z")
	cases := []struct {
		dur  time.Duration
		rate float64
	}{
		{20 * time.Minute, 10},
		{90 * time.Minute, 7.77},
		{7*time.Minute + 13*time.Second, 3.33},
		{36 * time.Hour, 12.5},
	}
	for _, tc := range cases {
		q, err := ComputePrice(start, start.Add(tc.dur), tc.rate)
		require.NoError(t, err)
		hours := float64(tc.dur.Milliseconds()) / 3600000
		assert.Equal(t, math.Round(hours*tc.rate*100)/100, q.Price.Float64())
		assert.Equal(t, hours, q.Hours)
	}
}

func TestComputePrice_Deterministic(t *testing.T) {
	start := mustTime(t, "2024-03-10T08:15:00Z")
	end := start.Add(137 * time.Minute)
	a, err := ComputePrice(start, end, 4.2)
	require.NoError(t, err)
	b, err := ComputePrice(start, end, 4.2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPrice_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		P Price `json:"p"`
	}{P: 200})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":200.00}`, string(b))
	assert.Contains(t, string(b), "200.00")

	b, err = json.Marshal(Price(3.5))
	require.NoError(t, err)
	assert.Equal(t, "3.50", string(b))
}

func TestHourlyPricingStrategy(t *testing.T) {
	var s PricingStrategy = NewHourlyPricingStrategy()
	q, err := s.Quote(mustTime(t, "2024-01-01T10:00:00Z"), mustTime(t, "2024-01-01T10:30:00Z"), 9)
	require.NoError(t, err)
	assert.Equal(t, Price(4.5), q.Price)
}
