package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, reference, guest_id, room_id, check_in, check_out, guest_count, total_amount, currency,
	status, payment_confirmed, created_at, cancelled_at, checked_in_at, checked_out_at`

// Statuses that hold a room.
var blockingStatuses = []string{
	string(domain.BookingStatusPending),
	string(domain.BookingStatusConfirmed),
	string(domain.BookingStatusCheckedIn),
}

func (r *bookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Save", "bookingID", b.ID(), "reference", b.Reference().String())
	s := b.Snapshot()

	query := `INSERT INTO bookings (` + bookingColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, payment_confirmed = EXCLUDED.payment_confirmed,
	          cancelled_at = EXCLUDED.cancelled_at, checked_in_at = EXCLUDED.checked_in_at, checked_out_at = EXCLUDED.checked_out_at`
	logger.DatabaseCall("UPSERT", "bookings", "bookingID", s.ID, "status", s.Status)

	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		s.ID, s.Reference.String(), s.GuestID, s.RoomID,
		s.DateRange.CheckIn(), s.DateRange.CheckOut(), s.GuestCount,
		s.TotalAmount.Amount(), s.TotalAmount.Currency(),
		string(s.Status), s.PaymentConfirmed, s.CreatedAt,
		s.CancelledAt, s.CheckedInAt, s.CheckedOutAt,
	)
	if err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "bookingID", s.ID)
		if constraint, ok := constraintViolation(err); ok {
			switch constraint {
			case "bookings_reference_key":
				err = domain.ErrDuplicateReference
			case "bookings_no_overlap":
				err = domain.ErrOverlappingBooking
			}
			logger.ExitMethodWithError("bookingRepository.Save", err, "constraint", constraint)
			return err
		}
		logger.ExitMethodWithError("bookingRepository.Save", err)
		return fmt.Errorf("failed to save booking: %w", err)
	}

	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPSERT", n, nil, "bookingID", s.ID)
	logger.ExitMethod("bookingRepository.Save", "bookingID", s.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *bookingRepository) GetByReference(ctx context.Context, ref domain.BookingReference) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.getOne(ctx, query, ref.String())
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE guest_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, guestID)
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, roomID uuid.UUID, dr domain.DateRange) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE room_id = $1 AND status IN ($2, $3, $4) AND check_in < $5 AND check_out > $6
	          ORDER BY check_in`
	return r.list(ctx, query, roomID, blockingStatuses[0], blockingStatuses[1], blockingStatuses[2], dr.CheckOut(), dr.CheckIn())
}

func (r *bookingRepository) ListArrivingOn(ctx context.Context, date time.Time, status domain.BookingStatus) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE check_in = $1 AND status = $2 ORDER BY created_at`
	return r.list(ctx, query, domain.DateOf(date), string(status))
}

func (r *bookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		s                                    domain.BookingSnapshot
		reference, currency, status          string
		checkIn, checkOut                    time.Time
		amount                               decimal.Decimal
		cancelledAt, checkedInAt, checkedOut sql.NullTime
	)
	err := row.Scan(&s.ID, &reference, &s.GuestID, &s.RoomID, &checkIn, &checkOut, &s.GuestCount,
		&amount, &currency, &status, &s.PaymentConfirmed, &s.CreatedAt,
		&cancelledAt, &checkedInAt, &checkedOut)
	if err != nil {
		return nil, err
	}

	if s.Reference, err = domain.NewBookingReference(reference); err != nil {
		return nil, fmt.Errorf("stored booking %s: %w", s.ID, err)
	}
	if s.DateRange, err = domain.RestoreDateRange(checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("stored booking %s: %w", s.ID, err)
	}
	if s.TotalAmount, err = domain.NewMoney(amount, currency); err != nil {
		return nil, fmt.Errorf("stored booking %s: %w", s.ID, err)
	}
	s.Status = domain.BookingStatus(status)
	s.CancelledAt = nullTime(cancelledAt)
	s.CheckedInAt = nullTime(checkedInAt)
	s.CheckedOutAt = nullTime(checkedOut)

	return domain.RestoreBooking(s)
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
