// Package memory holds mutex-guarded in-process repositories with the same
// atomicity contract as the Postgres ones. Lock order is bookings, then
// listings, then profiles.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/booking"
	listingDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/listing"
	profileDomain "github.com/realrohanroy/parknesting-sub000/internal/domain/profile"
	"github.com/realrohanroy/parknesting-sub000/internal/platform/domain"
)

// Store is the shared backing state for the memory repositories.
type Store struct {
	bookingsMu sync.Mutex
	bookings   map[uuid.UUID]bookingDomain.Booking

	listingsMu sync.RWMutex
	listings   map[uuid.UUID]listingDomain.Listing

	profilesMu sync.RWMutex
	profiles   map[uuid.UUID]profileDomain.Profile
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]bookingDomain.Booking),
		listings: make(map[uuid.UUID]listingDomain.Listing),
		profiles: make(map[uuid.UUID]profileDomain.Profile),
	}
}

// Bookings returns a BookingRepository over the store.
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

// Queries returns a QueryRepository over the store.
func (s *Store) Queries() *QueryRepository { return &QueryRepository{s: s} }

// Listings returns a ListingRepository over the store.
func (s *Store) Listings() *ListingRepository { return &ListingRepository{s: s} }

// Profiles returns a ProfileRepository over the store.
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }

func (s *Store) listing(id uuid.UUID) (listingDomain.Listing, bool) {
	s.listingsMu.RLock()
	defer s.listingsMu.RUnlock()
	l, ok := s.listings[id]
	return l, ok
}

func (s *Store) profile(id uuid.UUID) (profileDomain.Profile, bool) {
	s.profilesMu.RLock()
	defer s.profilesMu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// overlapsLocked reports an occupying overlap; caller holds bookingsMu.
func (s *Store) overlapsLocked(listingID uuid.UUID, tr bookingDomain.TimeRange, skip uuid.UUID) bool {
	for id, b := range s.bookings {
		if id == skip || b.ListingID() != listingID || !b.Status().OccupiesSlot() {
			continue
		}
		if b.TimeRange().Overlaps(tr) {
			return true
		}
	}
	return false
}

// --- Bookings ---

// BookingRepository implements booking.BookingRepository in memory.
type BookingRepository struct{ s *Store }

func (r *BookingRepository) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return &b, nil
}

func (r *BookingRepository) HasOverlap(_ context.Context, listingID uuid.UUID, tr bookingDomain.TimeRange) (bool, error) {
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()
	return r.s.overlapsLocked(listingID, tr, uuid.Nil), nil
}

func (r *BookingRepository) SaveExclusive(ctx context.Context, b *bookingDomain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()

	l, ok := r.s.listing(b.ListingID())
	if !ok || !l.IsActive() {
		return domain.NewNotFoundError("Listing", b.ListingID().String())
	}
	if r.s.overlapsLocked(b.ListingID(), b.TimeRange(), b.ID()) {
		return bookingDomain.ErrNotAvailable
	}
	r.s.bookings[b.ID()] = *b
	return nil
}

func (r *BookingRepository) Transition(ctx context.Context, id uuid.UUID, mutate bookingDomain.TransitionFunc) (*bookingDomain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()

	current, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	listing, ok := r.s.listing(current.ListingID())
	if !ok {
		return nil, domain.NewNotFoundError("Listing", current.ListingID().String())
	}
	working := current
	if err := mutate(&working, listing.OwnerID()); err != nil {
		return nil, err
	}
	working.IncrementVersion()
	r.s.bookings[id] = working
	out := working
	return &out, nil
}

func (r *BookingRepository) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.s.bookingsMu.Lock()
	all := make([]*bookingDomain.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		b := b // per-iteration copy; module targets go1.21 loop semantics
		all = append(all, &b)
	}
	r.s.bookingsMu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt().After(all[j].CreatedAt()) })

	total := int64(len(all))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		return []*bookingDomain.Booking{}, total, nil
	}
	offset := (page - 1) * limit
	if offset >= len(all) {
		return []*bookingDomain.Booking{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *BookingRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.s.bookings {
		counts[string(b.Status())]++
	}
	return counts, nil
}

// --- Queries ---

// QueryRepository implements booking.QueryRepository in memory.
type QueryRepository struct{ s *Store }

func (r *QueryRepository) ListByRenter(_ context.Context, renterID uuid.UUID) ([]bookingDomain.BookingView, error) {
	return r.list(func(b bookingDomain.Booking, _ listingDomain.Listing) bool {
		return b.UserID() == renterID
	}, false), nil
}

func (r *QueryRepository) ListByHost(_ context.Context, hostID uuid.UUID) ([]bookingDomain.BookingView, error) {
	return r.list(func(_ bookingDomain.Booking, l listingDomain.Listing) bool {
		return l.OwnerID() == hostID
	}, true), nil
}

func (r *QueryRepository) list(match func(bookingDomain.Booking, listingDomain.Listing) bool, withRenter bool) []bookingDomain.BookingView {
	r.s.bookingsMu.Lock()
	defer r.s.bookingsMu.Unlock()

	views := make([]bookingDomain.BookingView, 0)
	for _, b := range r.s.bookings {
		l, ok := r.s.listing(b.ListingID())
		if !ok || !match(b, l) {
			continue
		}
		v := bookingDomain.BookingView{
			ID:          b.ID(),
			ListingID:   b.ListingID(),
			UserID:      b.UserID(),
			StartTime:   b.StartTime(),
			EndTime:     b.EndTime(),
			Status:      b.Status(),
			TotalPrice:  b.TotalPrice(),
			VehicleInfo: b.VehicleInfo(),
			CreatedAt:   b.CreatedAt(),
			Listing: bookingDomain.ListingSummary{
				Title:    l.Title(),
				Address:  l.Address(),
				City:     l.City(),
				ImageURL: l.ImageURL(),
			},
		}
		if withRenter {
			v.Renter = &bookingDomain.RenterSummary{}
			if p, ok := r.s.profile(b.UserID()); ok {
				v.Renter.FullName = p.FullName()
				v.Renter.AvatarURL = p.AvatarURL()
			}
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].StartTime.After(views[j].StartTime) })
	return views
}

// --- Listings ---

// ListingRepository implements listing.ListingRepository in memory.
type ListingRepository struct{ s *Store }

func (r *ListingRepository) FindByID(_ context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	l, ok := r.s.listing(id)
	if !ok {
		return nil, domain.NewNotFoundError("Listing", id.String())
	}
	return &l, nil
}

func (r *ListingRepository) Upsert(_ context.Context, l *listingDomain.Listing) error {
	r.s.listingsMu.Lock()
	defer r.s.listingsMu.Unlock()
	if cur, ok := r.s.listings[l.ID()]; ok && cur.UpdatedAt().After(l.UpdatedAt()) {
		return nil
	}
	r.s.listings[l.ID()] = *l
	return nil
}

// --- Profiles ---

// ProfileRepository implements profile.ProfileRepository in memory.
type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) FindByID(_ context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	p, ok := r.s.profile(id)
	if !ok {
		return nil, domain.NewNotFoundError("Profile", id.String())
	}
	return &p, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, p *profileDomain.Profile) error {
	r.s.profilesMu.Lock()
	defer r.s.profilesMu.Unlock()
	if cur, ok := r.s.profiles[p.ID()]; ok && cur.UpdatedAt().After(p.UpdatedAt()) {
		return nil
	}
	r.s.profiles[p.ID()] = *p
	return nil
}

var (
	_ bookingDomain.BookingRepository = (*BookingRepository)(nil)
	_ bookingDomain.QueryRepository   = (*QueryRepository)(nil)
	_ listingDomain.ListingRepository = (*ListingRepository)(nil)
	_ profileDomain.ProfileRepository = (*ProfileRepository)(nil)
)
