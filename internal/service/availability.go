package service

import (
	"context"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/repository"
)

type availabilityService struct {
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	now         func() time.Time
}

func NewAvailabilityService(roomRepo repository.RoomRepository, bookingRepo repository.BookingRepository) AvailabilityService {
	return &availabilityService{roomRepo: roomRepo, bookingRepo: bookingRepo, now: time.Now}
}

func (s *availabilityService) CheckRoomAvailability(ctx context.Context, q AvailabilityQuery) ([]AvailableRoom, error) {
	dr, err := domain.NewDateRange(q.CheckIn, q.CheckOut, s.now())
	if err != nil {
		return nil, err
	}

	var rooms []*domain.Room
	if q.RoomType != nil {
		rooms, err = s.roomRepo.ListByType(ctx, *q.RoomType)
	} else {
		rooms, err = s.roomRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	available, err := filterAvailable(ctx, s.bookingRepo, rooms, dr, q.GuestCount)
	if err != nil {
		return nil, err
	}

	out := make([]AvailableRoom, 0, len(available))
	for _, room := range available {
		rate, err := domain.StandardRate(room.Type())
		if err != nil {
			return nil, err
		}
		total, err := rate.TotalFor(dr)
		if err != nil {
			return nil, err
		}
		out = append(out, AvailableRoom{
			RoomID:        room.ID(),
			Number:        room.Number(),
			RoomType:      room.Type(),
			MaxCapacity:   room.MaxCapacity().Value(),
			PricePerNight: rate.PricePerNight,
			TotalPrice:    total,
		})
	}
	return out, nil
}
