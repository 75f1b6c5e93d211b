package domain

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// CancellationNotice is how long before the check-in date a booking may still be cancelled.
const CancellationNotice = 48 * time.Hour

const (
	referenceLength   = 10
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type BookingReference struct {
	value string
}

func NewBookingReference(value string) (BookingReference, error) {
	if len(value) != referenceLength {
		return BookingReference{}, ErrInvalidReferenceLength
	}
	for _, c := range value {
		if !isAlphanumeric(c) {
			return BookingReference{}, ErrInvalidReferenceChars
		}
	}
	return BookingReference{value: value}, nil
}

// GenerateBookingReference draws a random upper-case alphanumeric reference.
// Uniqueness is left to storage.
func GenerateBookingReference() BookingReference {
	buf := make([]byte, referenceLength)
	limit := big.NewInt(int64(len(referenceAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic("booking reference: " + err.Error())
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return BookingReference{value: string(buf)}
}

func (r BookingReference) String() string { return r.value }

func isAlphanumeric(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

type Booking struct {
	id               uuid.UUID
	reference        BookingReference
	guestID          uuid.UUID
	roomID           uuid.UUID
	dateRange        DateRange
	guestCount       int
	totalAmount      Money
	status           BookingStatus
	paymentConfirmed bool
	createdAt        time.Time
	cancelledAt      *time.Time
	checkedInAt      *time.Time
	checkedOutAt     *time.Time
}

// NewBooking creates a PENDING booking with a fresh reference.
func NewBooking(guestID, roomID uuid.UUID, dr DateRange, guestCount int, total Money, now time.Time) (*Booking, error) {
	b := &Booking{
		id:          uuid.New(),
		reference:   GenerateBookingReference(),
		guestID:     guestID,
		roomID:      roomID,
		dateRange:   dr,
		guestCount:  guestCount,
		totalAmount: total,
		status:      BookingStatusPending,
		createdAt:   now,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// BookingSnapshot carries every persisted field of a booking.
type BookingSnapshot struct {
	ID               uuid.UUID
	Reference        BookingReference
	GuestID          uuid.UUID
	RoomID           uuid.UUID
	DateRange        DateRange
	GuestCount       int
	TotalAmount      Money
	Status           BookingStatus
	PaymentConfirmed bool
	CreatedAt        time.Time
	CancelledAt      *time.Time
	CheckedInAt      *time.Time
	CheckedOutAt     *time.Time
}

// RestoreBooking rebuilds a booking loaded from storage.
func RestoreBooking(s BookingSnapshot) (*Booking, error) {
	b := &Booking{
		id:               s.ID,
		reference:        s.Reference,
		guestID:          s.GuestID,
		roomID:           s.RoomID,
		dateRange:        s.DateRange,
		guestCount:       s.GuestCount,
		totalAmount:      s.TotalAmount,
		status:           s.Status,
		paymentConfirmed: s.PaymentConfirmed,
		createdAt:        s.CreatedAt,
		cancelledAt:      s.CancelledAt,
		checkedInAt:      s.CheckedInAt,
		checkedOutAt:     s.CheckedOutAt,
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Snapshot exposes the booking's state for persistence and output mapping.
func (b *Booking) Snapshot() BookingSnapshot {
	return BookingSnapshot{
		ID:               b.id,
		Reference:        b.reference,
		GuestID:          b.guestID,
		RoomID:           b.roomID,
		DateRange:        b.dateRange,
		GuestCount:       b.guestCount,
		TotalAmount:      b.totalAmount,
		Status:           b.status,
		PaymentConfirmed: b.paymentConfirmed,
		CreatedAt:        b.createdAt,
		CancelledAt:      b.cancelledAt,
		CheckedInAt:      b.checkedInAt,
		CheckedOutAt:     b.checkedOutAt,
	}
}

func (b *Booking) validate() error {
	if b.guestID == uuid.Nil {
		return ErrGuestIDRequired
	}
	if b.roomID == uuid.Nil {
		return ErrRoomIDRequired
	}
	if b.dateRange.IsZero() {
		return ErrDateRangeRequired
	}
	if b.guestCount < 1 {
		return ErrGuestCountTooLow
	}
	if b.totalAmount.currency == "" {
		return ErrAmountRequired
	}
	return nil
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) Reference() BookingReference { return b.reference }
func (b *Booking) GuestID() uuid.UUID          { return b.guestID }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) DateRange() DateRange        { return b.dateRange }
func (b *Booking) GuestCount() int             { return b.guestCount }
func (b *Booking) TotalAmount() Money          { return b.totalAmount }
func (b *Booking) Status() BookingStatus       { return b.status }
func (b *Booking) PaymentConfirmed() bool      { return b.paymentConfirmed }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) CancelledAt() *time.Time     { return b.cancelledAt }
func (b *Booking) CheckedInAt() *time.Time     { return b.checkedInAt }
func (b *Booking) CheckedOutAt() *time.Time    { return b.checkedOutAt }

// RegenerateReference replaces the reference after storage reported a collision.
// Only bookings that were never stored may change reference.
func (b *Booking) RegenerateReference() {
	b.reference = GenerateBookingReference()
}

func (b *Booking) ConfirmPayment() error {
	if b.status != BookingStatusPending {
		return ErrNotPending
	}
	b.paymentConfirmed = true
	b.status = BookingStatusConfirmed
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.status != BookingStatusConfirmed {
		return ErrNotConfirmed
	}
	if DateOf(now).Before(b.dateRange.checkIn) {
		return ErrCheckInTooEarly
	}
	b.status = BookingStatusCheckedIn
	b.checkedInAt = &now
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.status != BookingStatusCheckedIn {
		return ErrNotCheckedIn
	}
	b.status = BookingStatusCheckedOut
	b.checkedOutAt = &now
	return nil
}

// CanBeCancelled is true strictly before midnight of the check-in date minus the notice period.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	if b.status == BookingStatusCancelled || b.status == BookingStatusCheckedOut {
		return false
	}
	if b.dateRange.IsZero() {
		return false
	}
	y, m, d := b.dateRange.checkIn.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(-CancellationNotice)
	return now.Before(cutoff)
}

func (b *Booking) Cancel(now time.Time) error {
	if !b.CanBeCancelled(now) {
		return ErrCancellationWindow
	}
	b.status = BookingStatusCancelled
	b.cancelledAt = &now
	return nil
}

// IsActive reports a paid booking that has not ended.
func (b *Booking) IsActive() bool {
	return b.status == BookingStatusConfirmed || b.status == BookingStatusCheckedIn
}
