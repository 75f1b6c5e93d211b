package repository

import (
	"context"
	"time"

	"crown-hotels-booking/internal/domain"

	"github.com/google/uuid"
)

// Single-entity lookups return domain.ErrNotFound when nothing matches.

type GuestRepository interface {
	Save(ctx context.Context, guest *domain.Guest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error)
	GetByEmail(ctx context.Context, email string) (*domain.Guest, error)
}

type RoomRepository interface {
	Save(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByNumber(ctx context.Context, number domain.RoomNumber) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	ListByType(ctx context.Context, roomType domain.RoomType) ([]*domain.Room, error)
}

type BookingRepository interface {
	// Save inserts or updates. Inserting a reference that is already taken
	// returns domain.ErrDuplicateReference.
	Save(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error)
	// ListByGuest returns the guest's bookings, newest first.
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*domain.Booking, error)
	// ListOverlapping returns PENDING, CONFIRMED and CHECKED_IN bookings of the room
	// whose stay overlaps dr under the half-open rule of domain.DateRange.OverlapsWith.
	ListOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]*domain.Booking, error)
	// ListArrivingOn returns bookings in the given status checking in on date.
	ListArrivingOn(ctx context.Context, date time.Time, status domain.BookingStatus) ([]*domain.Booking, error)
}

type HotelRepository interface {
	Save(ctx context.Context, hotel *domain.Hotel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
	// GetDefault returns the first hotel, creating "Crown Hotels" when none exists.
	GetDefault(ctx context.Context) (*domain.Hotel, error)
}

// Transactor runs fn as one atomic unit: committed when fn returns nil, rolled back otherwise.
// Repositories called with the ctx passed to fn take part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
