package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "STANDARD"
	RoomTypeDeluxe   RoomType = "DELUXE"
	RoomTypeSuite    RoomType = "SUITE"
)

var RoomTypes = []RoomType{RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite}

// ParseRoomType accepts any casing of a known room type.
func ParseRoomType(s string) (RoomType, error) {
	rt := RoomType(strings.ToUpper(strings.TrimSpace(s)))
	switch rt {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return rt, nil
	}
	return "", ErrInvalidRoomType
}

var roomNumberPattern = regexp.MustCompile(`^[1-9]\d{2}$`)

// RoomNumber is a three digit number: floor (1-9) followed by the room on that floor (01-50).
type RoomNumber struct {
	value string
}

func NewRoomNumber(value string) (RoomNumber, error) {
	if !roomNumberPattern.MatchString(value) {
		return RoomNumber{}, ErrInvalidRoomNumber
	}
	onFloor, _ := strconv.Atoi(value[1:])
	if onFloor < 1 || onFloor > 50 {
		return RoomNumber{}, ErrRoomNumberOnFloor
	}
	return RoomNumber{value: value}, nil
}

func (n RoomNumber) String() string { return n.value }

func (n RoomNumber) Floor() int {
	if n.value == "" {
		return 0
	}
	return int(n.value[0] - '0')
}

type GuestCapacity struct {
	value int
}

func NewGuestCapacity(value int) (GuestCapacity, error) {
	if value < 1 {
		return GuestCapacity{}, ErrCapacityTooLow
	}
	if value > 4 {
		return GuestCapacity{}, ErrCapacityTooHigh
	}
	return GuestCapacity{value: value}, nil
}

var defaultCapacities = map[RoomType]int{
	RoomTypeStandard: 2,
	RoomTypeDeluxe:   3,
	RoomTypeSuite:    4,
}

// CapacityForRoomType returns the default maximum occupancy of a room type.
func CapacityForRoomType(rt RoomType) (GuestCapacity, error) {
	c, ok := defaultCapacities[rt]
	if !ok {
		return GuestCapacity{}, ErrInvalidRoomType
	}
	return NewGuestCapacity(c)
}

func (c GuestCapacity) Value() int { return c.value }

// RoomRate is the static price per night of a room type.
type RoomRate struct {
	RoomType      RoomType
	PricePerNight Money
}

var standardRates = map[RoomType]RoomRate{
	RoomTypeStandard: {RoomType: RoomTypeStandard, PricePerNight: MustMoney("100.00", DefaultCurrency)},
	RoomTypeDeluxe:   {RoomType: RoomTypeDeluxe, PricePerNight: MustMoney("200.00", DefaultCurrency)},
	RoomTypeSuite:    {RoomType: RoomTypeSuite, PricePerNight: MustMoney("300.00", DefaultCurrency)},
}

func StandardRate(rt RoomType) (RoomRate, error) {
	r, ok := standardRates[rt]
	if !ok {
		return RoomRate{}, ErrInvalidRoomType
	}
	return r, nil
}

// TotalFor prices a stay of the given range.
func (r RoomRate) TotalFor(dr DateRange) (Money, error) {
	return r.PricePerNight.Multiply(dr.Nights())
}

type Room struct {
	id          uuid.UUID
	number      RoomNumber
	roomType    RoomType
	maxCapacity GuestCapacity
	isAvailable bool
	createdAt   time.Time
}

// NewRoom builds an available room. A zero capacity falls back to the room type default.
func NewRoom(number RoomNumber, roomType RoomType, capacity GuestCapacity, now time.Time) (*Room, error) {
	return RestoreRoom(uuid.New(), number, roomType, capacity, true, now)
}

// RestoreRoom rebuilds a room loaded from storage.
func RestoreRoom(id uuid.UUID, number RoomNumber, roomType RoomType, capacity GuestCapacity, isAvailable bool, createdAt time.Time) (*Room, error) {
	if number.value == "" {
		return nil, ErrRoomNumberRequired
	}
	if roomType == "" {
		return nil, ErrRoomTypeRequired
	}
	if capacity.value == 0 {
		c, err := CapacityForRoomType(roomType)
		if err != nil {
			return nil, err
		}
		capacity = c
	}
	return &Room{
		id:          id,
		number:      number,
		roomType:    roomType,
		maxCapacity: capacity,
		isAvailable: isAvailable,
		createdAt:   createdAt,
	}, nil
}

func (r *Room) ID() uuid.UUID              { return r.id }
func (r *Room) Number() RoomNumber         { return r.number }
func (r *Room) Type() RoomType             { return r.roomType }
func (r *Room) MaxCapacity() GuestCapacity { return r.maxCapacity }
func (r *Room) IsAvailable() bool          { return r.isAvailable }
func (r *Room) CreatedAt() time.Time       { return r.createdAt }

func (r *Room) CanAccommodate(guestCount int) bool {
	return guestCount <= r.maxCapacity.value
}

// IsAvailableForDates checks the room against bookings supplied by the caller.
// Cancelled and checked-out bookings never block a room.
func (r *Room) IsAvailableForDates(dr DateRange, bookings []*Booking) bool {
	if !r.isAvailable {
		return false
	}
	for _, b := range bookings {
		if b.roomID != r.id {
			continue
		}
		if b.status == BookingStatusCancelled || b.status == BookingStatusCheckedOut {
			continue
		}
		if b.dateRange.OverlapsWith(dr) {
			return false
		}
	}
	return true
}
