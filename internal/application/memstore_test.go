package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/booking"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/transaction"
)

// memStore is an in-memory stand-in for PostgreSQL. GetForUpdate takes a
// row mutex that is held until the transaction ends, and writes made inside
// a transaction only become visible on Commit.
type memStore struct {
	mu         sync.Mutex
	seq        int
	properties map[string]property.Property
	blocks     map[string]availability.Block
	bookings   map[string]booking.Booking
	rowLocks   map[string]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[string]property.Property{},
		blocks:     map[string]availability.Block{},
		bookings:   map[string]booking.Booking{},
		rowLocks:   map[string]*sync.Mutex{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) rowLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[key] = m
	}
	return m
}

type memTx struct {
	store  *memStore
	held   map[string]*sync.Mutex
	writes []func()
	done   bool
}

func (tx *memTx) lock(key string) {
	if _, ok := tx.held[key]; ok {
		return
	}
	m := tx.store.rowLock(key)
	m.Lock()
	tx.held[key] = m
}

func (tx *memTx) end() {
	for _, m := range tx.held {
		m.Unlock()
	}
	tx.held = nil
	tx.done = true
}

func (tx *memTx) Commit() error {
	if tx.done {
		return errors.New("transaction already finished")
	}
	tx.store.mu.Lock()
	for _, w := range tx.writes {
		w()
	}
	tx.store.mu.Unlock()
	tx.end()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.end()
	return nil
}

func (s *memStore) Begin(context.Context) (transaction.Tx, error) {
	return &memTx{store: s, held: map[string]*sync.Mutex{}}, nil
}

// write queues fn to run under the store mutex on commit.
func write(tx transaction.Tx, fn func()) error {
	mtx, ok := tx.(*memTx)
	if !ok || mtx.done {
		return errors.New("write outside an open transaction")
	}
	mtx.writes = append(mtx.writes, fn)
	return nil
}

// property.Repository

type memPropertyRepo struct{ *memStore }

func (r memPropertyRepo) GetByID(_ context.Context, id string) (*property.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.properties[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	return &p, nil
}

func (r memPropertyRepo) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*property.Property, error) {
	tx.(*memTx).lock("property:" + id)
	return r.GetByID(ctx, id)
}

func (r memPropertyRepo) SetActive(_ context.Context, tx transaction.Tx, id string, active bool) error {
	return write(tx, func() {
		p := r.properties[id]
		p.IsActive = active
		r.properties[id] = p
	})
}

// availability.Repository

type memBlockRepo struct{ *memStore }

func (r memBlockRepo) ListByProperty(_ context.Context, _ transaction.Tx, propertyID string) ([]*availability.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*availability.Block{}
	for _, b := range r.blocks {
		if b.PropertyID == propertyID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r memBlockRepo) Upsert(_ context.Context, tx transaction.Tx, b *availability.Block) error {
	key := b.PropertyID + "|" + daterange.Format(b.StartDate) + "|" + daterange.Format(b.EndDate)
	if b.ID == "" {
		b.ID = r.nextID("block")
	}
	stored := *b
	return write(tx, func() {
		if existing, ok := r.blocks[key]; ok {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
		}
		r.blocks[key] = stored
	})
}

// booking.Repository

type memBookingRepo struct{ *memStore }

func (r memBookingRepo) Create(_ context.Context, tx transaction.Tx, b *booking.Booking) error {
	b.ID = r.nextID("booking")
	stored := *b
	return write(tx, func() { r.bookings[stored.ID] = stored })
}

func (r memBookingRepo) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

func (r memBookingRepo) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*booking.Booking, error) {
	tx.(*memTx).lock("booking:" + id)
	return r.GetByID(ctx, id)
}

func (r memBookingRepo) Update(_ context.Context, tx transaction.Tx, b *booking.Booking) error {
	stored := *b
	return write(tx, func() { r.bookings[stored.ID] = stored })
}

func (r memBookingRepo) ListActiveOverlapping(_ context.Context, _ transaction.Tx, propertyID string, rg daterange.Range) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*booking.Booking{}
	for _, b := range r.bookings {
		if b.PropertyID == propertyID && b.IsActive() && b.Range().Overlaps(rg) {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r memBookingRepo) matching(f booking.Filter) []*booking.Booking {
	out := []*booking.Booking{}
	for _, b := range r.bookings {
		switch {
		case f.Status != "" && b.Status != f.Status,
			f.PropertyID != "" && b.PropertyID != f.PropertyID,
			f.UserID != "" && b.UserID != f.UserID,
			f.StartFrom != nil && b.StartDate.Before(*f.StartFrom),
			f.EndUntil != nil && b.EndDate.After(*f.EndUntil):
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.OldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r memBookingRepo) List(_ context.Context, f booking.Filter) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(f)
	if f.Offset >= len(all) {
		return []*booking.Booking{}, nil
	}
	end := min(f.Offset+f.Limit, len(all))
	return all[f.Offset:end], nil
}

func (r memBookingRepo) Count(_ context.Context, f booking.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r memBookingRepo) RejectPendingByProperty(_ context.Context, tx transaction.Tx, propertyID string, now time.Time) (int, error) {
	r.mu.Lock()
	ids := []string{}
	for id, b := range r.bookings {
		if b.PropertyID == propertyID && b.Status == booking.StatusPending {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	err := write(tx, func() {
		for _, id := range ids {
			b := r.bookings[id]
			b.Status = booking.StatusRejected
			b.UpdatedAt = now
			r.bookings[id] = b
		}
	})
	return len(ids), err
}

// memServices wires the services over one memStore without Redis.
type memServices struct {
	store        *memStore
	availability *AvailabilityService
	bookings     *BookingService
	properties   *PropertyService
	notifier     *recordingNotifier
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []string
}

func (n *recordingNotifier) NotifyBookingConfirmed(_ context.Context, b *booking.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b.ID)
}

func newMemServices(now time.Time) *memServices {
	store := newMemStore()
	props, blocks, bookings := memPropertyRepo{store}, memBlockRepo{store}, memBookingRepo{store}
	clock := WithClock(func() time.Time { return now })
	notifier := &recordingNotifier{}

	avail := NewAvailabilityService(store, props, blocks, bookings, nil, nil, clock)
	return &memServices{
		store:        store,
		availability: avail,
		bookings:     NewBookingService(store, props, bookings, avail, nil, notifier, clock),
		properties:   NewPropertyService(store, props, bookings, nil, nil, clock),
		notifier:     notifier,
	}
}

func (m *memServices) addProperty(id string, base int64, active bool) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.properties[id] = property.Property{ID: id, BasePricePerNight: decimal.NewFromInt(base), IsActive: active}
}
