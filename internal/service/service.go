package service

import (
	"context"
	"errors"
	"time"

	"crown-hotels-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoRoomsAvailable   = errors.New("No rooms available for the requested dates and criteria")
	ErrPaymentFailed      = errors.New("Payment processing failed")
	ErrGuestExists        = errors.New("guest with this email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Payment is what the payment collaborator charges or refunds.
type Payment struct {
	BookingID uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	Method    string
}

const PaymentMethodMock = "mock"

// PaymentService reports success as a boolean; a false result is a decline, not an error.
type PaymentService interface {
	ProcessPayment(ctx context.Context, payment Payment) bool
	RefundPayment(ctx context.Context, payment Payment) bool
}

// NotificationService delivers guest messages. Delivery is best effort.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, reference, email string) bool
	SendCancellationConfirmation(ctx context.Context, reference, email string, refunded bool) bool
	SendCheckInReminder(ctx context.Context, reference, email string, checkIn time.Time) bool
}

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDetails, error)
	// GetBooking returns (nil, nil) when no booking has the reference.
	GetBooking(ctx context.Context, reference string) (*BookingDetails, error)
	CancelBooking(ctx context.Context, reference string) (*CancellationResult, error)
	CheckIn(ctx context.Context, reference string) (*BookingDetails, error)
	CheckOut(ctx context.Context, reference string) (*BookingDetails, error)
	GetGuestBookings(ctx context.Context, guestID uuid.UUID) (*GuestBookings, error)
}

type AvailabilityService interface {
	CheckRoomAvailability(ctx context.Context, query AvailabilityQuery) ([]AvailableRoom, error)
}

type GuestService interface {
	RegisterGuest(ctx context.Context, input GuestInput) (*domain.Guest, error)
}

type RoomService interface {
	ListRooms(ctx context.Context, roomType *domain.RoomType) ([]*domain.Room, error)
	// SeedRooms fills the default hotel with its standard layout once and
	// reports how many rooms were added.
	SeedRooms(ctx context.Context) (int, error)
}

type ReminderService interface {
	// SendCheckInReminders notifies guests of confirmed bookings arriving tomorrow.
	SendCheckInReminders(ctx context.Context) (sent int, err error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
}

type GuestInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Age       int
}

type CreateBookingInput struct {
	Guest      GuestInput
	RoomType   domain.RoomType
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
}

type AvailabilityQuery struct {
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	RoomType   *domain.RoomType
}

// BookingDetails is a booking together with the room it occupies.
type BookingDetails struct {
	Booking    *domain.Booking
	RoomNumber domain.RoomNumber
	RoomType   domain.RoomType
}

type AvailableRoom struct {
	RoomID        uuid.UUID
	Number        domain.RoomNumber
	RoomType      domain.RoomType
	MaxCapacity   int
	PricePerNight domain.Money
	TotalPrice    domain.Money
}

type CancellationResult struct {
	Booking *domain.Booking
	// RefundIssued is false when the booking was never paid or the refund was declined.
	RefundIssued bool
	Notified     bool
}

type GuestBookings struct {
	Guest    *domain.Guest
	Bookings []BookingDetails
}
