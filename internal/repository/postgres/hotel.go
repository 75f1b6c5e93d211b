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

type hotelRepository struct {
	db *sql.DB
}

func NewHotelRepository(db *sql.DB) repository.HotelRepository {
	return &hotelRepository{db: db}
}

// Save stores the hotel row and upserts every room it owns.
func (r *hotelRepository) Save(ctx context.Context, h *domain.Hotel) error {
	q := conn(ctx, r.db)
	query := `INSERT INTO hotels (id, name, created_at) VALUES ($1, $2, $3)
	          ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	logger.DatabaseCall("UPSERT", "hotels", "hotelID", h.ID())
	if _, err := q.ExecContext(ctx, query, h.ID(), h.Name(), h.CreatedAt()); err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "hotelID", h.ID())
		return fmt.Errorf("failed to save hotel: %w", err)
	}

	hotelID := h.ID()
	for _, room := range h.Rooms() {
		if err := saveRoom(ctx, q, room, &hotelID); err != nil {
			return err
		}
	}
	logger.DatabaseResult("UPSERT", int64(1+len(h.Rooms())), nil, "hotelID", h.ID())
	return nil
}

func (r *hotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	query := `SELECT id, name, created_at FROM hotels WHERE id = $1`
	return r.load(ctx, query, id)
}

func (r *hotelRepository) GetDefault(ctx context.Context) (*domain.Hotel, error) {
	query := `SELECT id, name, created_at FROM hotels ORDER BY created_at LIMIT 1`
	h, err := r.load(ctx, query)
	if errors.Is(err, domain.ErrNotFound) {
		h = domain.NewHotel(domain.DefaultHotelName, time.Now())
		if err := r.Save(ctx, h); err != nil {
			return nil, err
		}
		logger.Info("Created default hotel", "hotelID", h.ID(), "name", h.Name())
		return h, nil
	}
	return h, err
}

func (r *hotelRepository) load(ctx context.Context, query string, args ...any) (*domain.Hotel, error) {
	q := conn(ctx, r.db)

	var (
		id        uuid.UUID
		name      string
		createdAt time.Time
	)
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id, &name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}

	rooms, err := queryRooms(ctx, q, `SELECT `+roomColumns+` FROM rooms WHERE hotel_id = $1 ORDER BY number`, id)
	if err != nil {
		return nil, err
	}
	return domain.RestoreHotel(id, name, rooms, createdAt), nil
}
