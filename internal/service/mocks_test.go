package service

import (
	"context"
	"time"

	"crown-hotels-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockGuestRepo struct {
	mock.Mock
}

func (m *MockGuestRepo) Save(ctx context.Context, g *domain.Guest) error {
	return m.Called(ctx, g).Error(0)
}
func (m *MockGuestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}
func (m *MockGuestRepo) GetByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Save(ctx context.Context, r *domain.Room) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) GetByNumber(ctx context.Context, n domain.RoomNumber) (*domain.Room, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) List(ctx context.Context) ([]*domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) ListByType(ctx context.Context, rt domain.RoomType) ([]*domain.Room, error) {
	args := m.Called(ctx, rt)
	return args.Get(0).([]*domain.Room), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Save(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*domain.Booking, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]*domain.Booking, error) {
	args := m.Called(ctx, roomID, dr)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListArrivingOn(ctx context.Context, date time.Time, status domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, date, status)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

// passthroughTx runs fn directly and counts calls.
type passthroughTx struct {
	calls int
}

func (t *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) ProcessPayment(ctx context.Context, p Payment) bool {
	return m.Called(ctx, p).Bool(0)
}
func (m *MockPayments) RefundPayment(ctx context.Context, p Payment) bool {
	return m.Called(ctx, p).Bool(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, ref, email string) bool {
	return m.Called(ctx, ref, email).Bool(0)
}
func (m *MockNotifier) SendCancellationConfirmation(ctx context.Context, ref, email string, refunded bool) bool {
	return m.Called(ctx, ref, email, refunded).Bool(0)
}
func (m *MockNotifier) SendCheckInReminder(ctx context.Context, ref, email string, checkIn time.Time) bool {
	return m.Called(ctx, ref, email, checkIn).Bool(0)
}
