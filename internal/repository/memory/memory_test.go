package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	listingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/listing"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

func seedListing(t *testing.T, s *Store) *listingDomain.Listing {
	t.Helper()
	l, err := listingDomain.NewListing(uuid.New(), uuid.New(), "Bay", "1 Main St", "Springfield", "", 100, true, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Listings().Upsert(context.Background(), l))
	return l
}

func newBooking(t *testing.T, listingID uuid.UUID, start time.Time, d time.Duration) *bookingDomain.Booking {
	t.Helper()
	tr, err := bookingDomain.NewTimeRange(start, start.Add(d))
	require.NoError(t, err)
	b, err := bookingDomain.NewBooking(listingID, uuid.New(), tr, 1, nil)
	require.NoError(t, err)
	return b
}

func TestBookingRepository_SaveExclusive(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	first := newBooking(t, l.ID(), start, 2*time.Hour)
	require.NoError(t, s.Bookings().SaveExclusive(ctx, first))

	err := s.Bookings().SaveExclusive(ctx, newBooking(t, l.ID(), start.Add(time.Hour), 2*time.Hour))
	assert.ErrorIs(t, err, bookingDomain.ErrNotAvailable)

	require.NoError(t, s.Bookings().SaveExclusive(ctx, newBooking(t, l.ID(), start.Add(2*time.Hour), time.Hour)))

	err = s.Bookings().SaveExclusive(ctx, newBooking(t, uuid.New(), start, time.Hour))
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingRepository_CancelledFreesSlot(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	b := newBooking(t, l.ID(), start, 2*time.Hour)
	require.NoError(t, s.Bookings().SaveExclusive(ctx, b))

	_, err := s.Bookings().Transition(ctx, b.ID(), func(bk *bookingDomain.Booking, _ uuid.UUID) error {
		return bk.TransitionTo(bookingDomain.StatusCancelled, bookingDomain.RoleRenter)
	})
	require.NoError(t, err)

	overlap, err := s.Bookings().HasOverlap(ctx, l.ID(), b.TimeRange())
	require.NoError(t, err)
	assert.False(t, overlap)
}

func TestBookingRepository_TransitionErrorLeavesStateUntouched(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	ctx := context.Background()

	b := newBooking(t, l.ID(), time.Now().Add(time.Hour), time.Hour)
	require.NoError(t, s.Bookings().SaveExclusive(ctx, b))

	_, err := s.Bookings().Transition(ctx, b.ID(), func(bk *bookingDomain.Booking, _ uuid.UUID) error {
		return bk.TransitionTo(bookingDomain.StatusConfirmed, bookingDomain.RoleRenter)
	})
	assert.ErrorIs(t, err, bookingDomain.ErrForbidden)

	stored, err := s.Bookings().FindByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusPending, stored.Status())
	assert.Equal(t, int64(1), stored.Version())
}

func TestBookingRepository_ConcurrentSaveExclusive(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	const n = 16
	candidates := make([]*bookingDomain.Booking, n)
	for i := range candidates {
		candidates[i] = newBooking(t, l.ID(), start, time.Hour)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Bookings().SaveExclusive(context.Background(), candidates[i])
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if assert.ErrorIs(t, err, bookingDomain.ErrNotAvailable) {
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)
}

func TestListingRepository_IgnoresStaleSnapshot(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, owner := uuid.New(), uuid.New()
	now := time.Now()

	newer, _ := listingDomain.NewListing(id, owner, "New", "", "", "", 10, true, now)
	older, _ := listingDomain.NewListing(id, owner, "Old", "", "", "", 5, true, now.Add(-time.Minute))

	require.NoError(t, s.Listings().Upsert(ctx, newer))
	require.NoError(t, s.Listings().Upsert(ctx, older))

	got, err := s.Listings().FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title())
}

func TestQueryRepository_ScopesAndOrders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	mine := seedListing(t, s)
	other := seedListing(t, s)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	early := newBooking(t, mine.ID(), start, time.Hour)
	late := newBooking(t, mine.ID(), start.Add(24*time.Hour), time.Hour)
	foreign := newBooking(t, other.ID(), start, time.Hour)
	for _, b := range []*bookingDomain.Booking{early, late, foreign} {
		require.NoError(t, s.Bookings().SaveExclusive(ctx, b))
	}

	views, err := s.Queries().ListByHost(ctx, mine.OwnerID())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, late.ID(), views[0].ID)
	assert.Equal(t, early.ID(), views[1].ID)
	require.NotNil(t, views[0].Renter)

	views, err = s.Queries().ListByRenter(ctx, foreign.UserID())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, foreign.ID(), views[0].ID)
	assert.Nil(t, views[0].Renter)
}

func TestBookingRepository_ListAllClampsPaging(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Bookings().SaveExclusive(ctx, newBooking(t, l.ID(), start.Add(time.Duration(i)*time.Hour), time.Hour)))
	}

	for _, page := range []int{0, -3} {
		got, total, err := s.Bookings().ListAll(ctx, page, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, got, 2)
	}

	got, _, err := s.Bookings().ListAll(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookingRepository_TransitionPassesListingOwner(t *testing.T) {
	s := NewStore()
	l := seedListing(t, s)
	ctx := context.Background()
	b := newBooking(t, l.ID(), time.Now().Add(time.Hour), time.Hour)
	require.NoError(t, s.Bookings().SaveExclusive(ctx, b))

	var owner uuid.UUID
	_, err := s.Bookings().Transition(ctx, b.ID(), func(bk *bookingDomain.Booking, hostID uuid.UUID) error {
		owner = hostID
		return bk.TransitionTo(bookingDomain.StatusConfirmed, bookingDomain.RoleHost)
	})
	require.NoError(t, err)
	assert.Equal(t, l.OwnerID(), owner)
}
