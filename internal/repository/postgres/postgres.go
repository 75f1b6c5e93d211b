package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"

	"github.com/lib/pq"
)

// Store bundles the repositories sharing one connection pool.
type Store struct {
	db *sql.DB
	repository.GuestRepository
	repository.RoomRepository
	repository.BookingRepository
	repository.HotelRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		GuestRepository:   NewGuestRepository(db),
		RoomRepository:    NewRoomRepository(db),
		BookingRepository: NewBookingRepository(db),
		HotelRepository:   NewHotelRepository(db),
	}
}

// querier is the part of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// WithinTx implements repository.Transactor. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

// constraintViolation reports the violated constraint name when err is a
// unique or exclusion violation.
func constraintViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", false
	}
	switch pqErr.Code {
	case codeUniqueViolation, codeExclusionViolation:
		return pqErr.Constraint, true
	}
	return "", false
}
