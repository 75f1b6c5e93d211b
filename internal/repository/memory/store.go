// Package memory keeps every repository in process memory. It backs the
// server when no database DSN is configured and is used by service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"

	"github.com/google/uuid"
)

type hotelRecord struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
	rooms     []uuid.UUID
}

type state struct {
	guests   map[uuid.UUID]*domain.Guest
	rooms    map[uuid.UUID]*domain.Room
	bookings map[uuid.UUID]domain.BookingSnapshot
	hotels   map[uuid.UUID]hotelRecord
}

// undoEntry returns a func that puts m[k] back to its current value.
func undoEntry[K comparable, V any](m map[K]V, k K) func() {
	prev, existed := m[k]
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

// txLog collects the undo steps of one transaction's own writes.
type txLog struct {
	undo []func()
}

// Store is an in-memory implementation of every repository port plus
// repository.Transactor. Transactions are serialized and roll back by
// undoing only the writes made through their context, in reverse order.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	data  state
	clock func() time.Time

	Guests   repository.GuestRepository
	Rooms    repository.RoomRepository
	Bookings repository.BookingRepository
	Hotels   repository.HotelRepository
}

func NewStore() *Store {
	s := &Store{
		data: state{
			guests:   make(map[uuid.UUID]*domain.Guest),
			rooms:    make(map[uuid.UUID]*domain.Room),
			bookings: make(map[uuid.UUID]domain.BookingSnapshot),
			hotels:   make(map[uuid.UUID]hotelRecord),
		},
		clock: time.Now,
	}
	s.Guests = &guestRepository{s: s}
	s.Rooms = &roomRepository{s: s}
	s.Bookings = &bookingRepository{s: s}
	s.Hotels = &hotelRepository{s: s}
	return s
}

type txKey struct{}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
		logger.Debug("In-memory transaction rolled back", "error", err, "writes", len(tx.undo))
		return err
	}
	return nil
}

// recordLocked registers undo when ctx belongs to a transaction. Callers hold mu.
func recordLocked(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(txKey{}).(*txLog); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func copyRoom(r *domain.Room) *domain.Room {
	c, _ := domain.RestoreRoom(r.ID(), r.Number(), r.Type(), r.MaxCapacity(), r.IsAvailable(), r.CreatedAt())
	return c
}

func restoreBooking(s domain.BookingSnapshot) *domain.Booking {
	b, _ := domain.RestoreBooking(s)
	return b
}

func sortRooms(rooms []*domain.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Number().String() < rooms[j].Number().String()
	})
}

type guestRepository struct{ s *Store }

func (r *guestRepository) Save(ctx context.Context, g *domain.Guest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, other := range r.s.data.guests {
		if id != g.ID() && strings.EqualFold(other.Email(), g.Email()) {
			return domain.ErrGuestEmailTaken
		}
	}
	recordLocked(ctx, undoEntry(r.s.data.guests, g.ID()))
	r.s.data.guests[g.ID()] = g
	return nil
}

func (r *guestRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.data.guests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (r *guestRepository) GetByEmail(_ context.Context, email string) (*domain.Guest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.data.guests {
		if strings.EqualFold(g.Email(), email) {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

type roomRepository struct{ s *Store }

func (r *roomRepository) Save(ctx context.Context, room *domain.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.saveRoomLocked(ctx, room)
}

func (s *Store) saveRoomLocked(ctx context.Context, room *domain.Room) error {
	for id, other := range s.data.rooms {
		if id != room.ID() && other.Number() == room.Number() {
			return domain.ErrDuplicateRoom
		}
	}
	recordLocked(ctx, undoEntry(s.data.rooms, room.ID()))
	s.data.rooms[room.ID()] = copyRoom(room)
	return nil
}

func (r *roomRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	room, ok := r.s.data.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRoom(room), nil
}

func (r *roomRepository) GetByNumber(_ context.Context, number domain.RoomNumber) (*domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, room := range r.s.data.rooms {
		if room.Number() == number {
			return copyRoom(room), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *roomRepository) List(_ context.Context) ([]*domain.Room, error) {
	return r.filter(func(*domain.Room) bool { return true }), nil
}

func (r *roomRepository) ListByType(_ context.Context, rt domain.RoomType) ([]*domain.Room, error) {
	return r.filter(func(room *domain.Room) bool { return room.Type() == rt }), nil
}

func (r *roomRepository) filter(keep func(*domain.Room) bool) []*domain.Room {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rooms []*domain.Room
	for _, room := range r.s.data.rooms {
		if keep(room) {
			rooms = append(rooms, copyRoom(room))
		}
	}
	sortRooms(rooms)
	return rooms
}

type bookingRepository struct{ s *Store }

func blocks(status domain.BookingStatus) bool {
	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCheckedIn:
		return true
	}
	return false
}

// Save enforces the same unique reference and no-overlap rules as the
// database constraints.
func (r *bookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := b.Snapshot()
	for id, other := range r.s.data.bookings {
		if id == snap.ID {
			continue
		}
		if other.Reference == snap.Reference {
			return domain.ErrDuplicateReference
		}
		if blocks(snap.Status) && blocks(other.Status) && other.RoomID == snap.RoomID &&
			other.DateRange.OverlapsWith(snap.DateRange) {
			return domain.ErrOverlappingBooking
		}
	}
	recordLocked(ctx, undoEntry(r.s.data.bookings, snap.ID))
	r.s.data.bookings[snap.ID] = snap
	return nil
}

func (r *bookingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snap, ok := r.s.data.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return restoreBooking(snap), nil
}

func (r *bookingRepository) GetByReference(_ context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	found := r.filter(func(s domain.BookingSnapshot) bool { return s.Reference == ref })
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return found[0], nil
}

func (r *bookingRepository) ListByGuest(_ context.Context, guestID uuid.UUID) ([]*domain.Booking, error) {
	bookings := r.filter(func(s domain.BookingSnapshot) bool { return s.GuestID == guestID })
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt().After(bookings[j].CreatedAt())
	})
	return bookings, nil
}

func (r *bookingRepository) ListOverlapping(_ context.Context, roomID uuid.UUID, dr domain.DateRange) ([]*domain.Booking, error) {
	return r.filter(func(s domain.BookingSnapshot) bool {
		return s.RoomID == roomID && blocks(s.Status) && s.DateRange.OverlapsWith(dr)
	}), nil
}

func (r *bookingRepository) ListArrivingOn(_ context.Context, date time.Time, status domain.BookingStatus) ([]*domain.Booking, error) {
	day := domain.DateOf(date)
	return r.filter(func(s domain.BookingSnapshot) bool {
		return s.Status == status && s.DateRange.CheckIn().Equal(day)
	}), nil
}

// filter returns matches ordered by check-in date.
func (r *bookingRepository) filter(keep func(domain.BookingSnapshot) bool) []*domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var bookings []*domain.Booking
	for _, snap := range r.s.data.bookings {
		if keep(snap) {
			bookings = append(bookings, restoreBooking(snap))
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].DateRange().CheckIn().Before(bookings[j].DateRange().CheckIn())
	})
	return bookings
}

type hotelRepository struct{ s *Store }

func (r *hotelRepository) Save(ctx context.Context, h *domain.Hotel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := hotelRecord{id: h.ID(), name: h.Name(), createdAt: h.CreatedAt()}
	for _, room := range h.Rooms() {
		if err := r.s.saveRoomLocked(ctx, room); err != nil {
			return err
		}
		rec.rooms = append(rec.rooms, room.ID())
	}
	recordLocked(ctx, undoEntry(r.s.data.hotels, h.ID()))
	r.s.data.hotels[h.ID()] = rec
	return nil
}

func (r *hotelRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Hotel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.data.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.s.hotelLocked(rec), nil
}

func (r *hotelRepository) GetDefault(ctx context.Context) (*domain.Hotel, error) {
	r.s.mu.RLock()
	var first *hotelRecord
	for _, rec := range r.s.data.hotels {
		if first == nil || rec.createdAt.Before(first.createdAt) {
			rec := rec
			first = &rec
		}
	}
	if first != nil {
		h := r.s.hotelLocked(*first)
		r.s.mu.RUnlock()
		return h, nil
	}
	r.s.mu.RUnlock()

	h := domain.NewHotel(domain.DefaultHotelName, r.s.clock())
	if err := r.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) hotelLocked(rec hotelRecord) *domain.Hotel {
	rooms := make([]*domain.Room, 0, len(rec.rooms))
	for _, id := range rec.rooms {
		if room, ok := s.data.rooms[id]; ok {
			rooms = append(rooms, copyRoom(room))
		}
	}
	sortRooms(rooms)
	return domain.RestoreHotel(rec.id, rec.name, rooms, rec.createdAt)
}
