package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultHotelName = "Crown Hotels"

// Hotel owns its rooms; room numbers are unique within it.
type Hotel struct {
	id        uuid.UUID
	name      string
	rooms     []*Room
	createdAt time.Time
}

func NewHotel(name string, now time.Time) *Hotel {
	return RestoreHotel(uuid.New(), name, nil, now)
}

func RestoreHotel(id uuid.UUID, name string, rooms []*Room, createdAt time.Time) *Hotel {
	if name == "" {
		name = DefaultHotelName
	}
	return &Hotel{id: id, name: name, rooms: rooms, createdAt: createdAt}
}

func (h *Hotel) ID() uuid.UUID        { return h.id }
func (h *Hotel) Name() string         { return h.name }
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }

// Rooms returns the rooms in insertion order.
func (h *Hotel) Rooms() []*Room {
	out := make([]*Room, len(h.rooms))
	copy(out, h.rooms)
	return out
}

func (h *Hotel) AddRoom(room *Room) error {
	if h.RoomByNumber(room.number) != nil {
		return fmt.Errorf("room %s: %w", room.number, ErrDuplicateRoom)
	}
	h.rooms = append(h.rooms, room)
	return nil
}

func (h *Hotel) RoomByNumber(number RoomNumber) *Room {
	for _, r := range h.rooms {
		if r.number.value == number.value {
			return r
		}
	}
	return nil
}

func (h *Hotel) RoomsByType(rt RoomType) []*Room {
	var out []*Room
	for _, r := range h.rooms {
		if r.roomType == rt {
			out = append(out, r)
		}
	}
	return out
}

// GetAvailableRooms filters by optional type, capacity and dates, keeping collection order.
func (h *Hotel) GetAvailableRooms(dr DateRange, guestCount int, roomType *RoomType, bookings []*Booking) []*Room {
	var out []*Room
	for _, r := range h.rooms {
		if roomType != nil && r.roomType != *roomType {
			continue
		}
		if !r.CanAccommodate(guestCount) {
			continue
		}
		if r.IsAvailableForDates(dr, bookings) {
			out = append(out, r)
		}
	}
	return out
}
