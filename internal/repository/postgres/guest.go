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
)

type guestRepository struct {
	db *sql.DB
}

func NewGuestRepository(db *sql.DB) repository.GuestRepository {
	return &guestRepository{db: db}
}

const guestColumns = `id, first_name, last_name, email, phone, age, created_at`

func (r *guestRepository) Save(ctx context.Context, g *domain.Guest) error {
	query := `INSERT INTO guests (` + guestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
	          email = EXCLUDED.email, phone = EXCLUDED.phone, age = EXCLUDED.age`
	logger.DatabaseCall("UPSERT", "guests", "guestID", g.ID())

	res, err := conn(ctx, r.db).ExecContext(ctx, query, g.ID(), g.FirstName(), g.LastName(), g.Email(), g.Phone(), g.Age().Value(), g.CreatedAt())
	if err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "guestID", g.ID())
		if constraint, ok := constraintViolation(err); ok && constraint == "guests_email_key" {
			return domain.ErrGuestEmailTaken
		}
		return fmt.Errorf("failed to save guest: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPSERT", n, nil, "guestID", g.ID())
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	return scanGuest(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *guestRepository) GetByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE LOWER(email) = LOWER($1)`
	return scanGuest(conn(ctx, r.db).QueryRowContext(ctx, query, email))
}

func scanGuest(row *sql.Row) (*domain.Guest, error) {
	var (
		id                                uuid.UUID
		firstName, lastName, email, phone string
		age                               int
		createdAt                         time.Time
	)
	if err := row.Scan(&id, &firstName, &lastName, &email, &phone, &age, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}

	guestAge, err := domain.NewGuestAge(age)
	if err != nil {
		return nil, fmt.Errorf("stored guest %s: %w", id, err)
	}
	return domain.RestoreGuest(id, firstName, lastName, email, phone, guestAge, createdAt)
}
