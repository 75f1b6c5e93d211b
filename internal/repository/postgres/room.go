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

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, number, room_type, max_capacity, is_available, created_at`

func (r *roomRepository) Save(ctx context.Context, room *domain.Room) error {
	return saveRoom(ctx, conn(ctx, r.db), room, nil)
}

// saveRoom upserts a room. A nil hotelID leaves the stored owner untouched.
func saveRoom(ctx context.Context, q querier, room *domain.Room, hotelID *uuid.UUID) error {
	query := `INSERT INTO rooms (id, hotel_id, number, room_type, max_capacity, is_available, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE SET hotel_id = COALESCE(EXCLUDED.hotel_id, rooms.hotel_id),
	          room_type = EXCLUDED.room_type, max_capacity = EXCLUDED.max_capacity, is_available = EXCLUDED.is_available`
	logger.DatabaseCall("UPSERT", "rooms", "roomID", room.ID(), "number", room.Number().String())

	res, err := q.ExecContext(ctx, query, room.ID(), hotelID, room.Number().String(), string(room.Type()), room.MaxCapacity().Value(), room.IsAvailable(), room.CreatedAt())
	if err != nil {
		logger.DatabaseResult("UPSERT", 0, err, "roomID", room.ID())
		if constraint, ok := constraintViolation(err); ok && constraint == "rooms_number_key" {
			return fmt.Errorf("room %s: %w", room.Number(), domain.ErrDuplicateRoom)
		}
		return fmt.Errorf("failed to save room: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPSERT", n, nil, "roomID", room.ID())
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	room, err := scanRoom(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return room, err
}

func (r *roomRepository) GetByNumber(ctx context.Context, number domain.RoomNumber) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE number = $1`
	room, err := scanRoom(conn(ctx, r.db).QueryRowContext(ctx, query, number.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return room, err
}

func (r *roomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY number`
	return queryRooms(ctx, conn(ctx, r.db), query)
}

func (r *roomRepository) ListByType(ctx context.Context, roomType domain.RoomType) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_type = $1 ORDER BY number`
	return queryRooms(ctx, conn(ctx, r.db), query, string(roomType))
}

func queryRooms(ctx context.Context, q querier, query string, args ...any) ([]*domain.Room, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	var (
		id          uuid.UUID
		number      string
		roomType    string
		capacity    int
		isAvailable bool
		createdAt   time.Time
	)
	if err := row.Scan(&id, &number, &roomType, &capacity, &isAvailable, &createdAt); err != nil {
		return nil, err
	}

	rn, err := domain.NewRoomNumber(number)
	if err != nil {
		return nil, fmt.Errorf("stored room %s: %w", id, err)
	}
	rt, err := domain.ParseRoomType(roomType)
	if err != nil {
		return nil, fmt.Errorf("stored room %s: %w", id, err)
	}
	gc, err := domain.NewGuestCapacity(capacity)
	if err != nil {
		return nil, fmt.Errorf("stored room %s: %w", id, err)
	}
	return domain.RestoreRoom(id, rn, rt, gc, isAvailable, createdAt)
}
