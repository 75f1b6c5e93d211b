package service

import (
	"context"
	"fmt"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"
)

// floorPlan is the hotel's fixed layout: rooms 01..perFloor on each listed floor.
var floorPlan = []struct {
	roomType domain.RoomType
	floors   []int
	perFloor int
}{
	{domain.RoomTypeStandard, []int{1, 2}, 25},
	{domain.RoomTypeDeluxe, []int{3, 4}, 20},
	{domain.RoomTypeSuite, []int{5}, 10},
}

type roomService struct {
	roomRepo  repository.RoomRepository
	hotelRepo repository.HotelRepository
	tx        repository.Transactor
	now       func() time.Time
}

func NewRoomService(roomRepo repository.RoomRepository, hotelRepo repository.HotelRepository, tx repository.Transactor) RoomService {
	return &roomService{roomRepo: roomRepo, hotelRepo: hotelRepo, tx: tx, now: time.Now}
}

func (s *roomService) ListRooms(ctx context.Context, roomType *domain.RoomType) ([]*domain.Room, error) {
	if roomType != nil {
		return s.roomRepo.ListByType(ctx, *roomType)
	}
	return s.roomRepo.List(ctx)
}

// SeedRooms creates the default hotel and its floor plan in one transaction.
// A hotel that already has rooms is left as is.
func (s *roomService) SeedRooms(ctx context.Context) (int, error) {
	added := 0
	var hotelName string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		hotel, err := s.hotelRepo.GetDefault(ctx)
		if err != nil {
			return err
		}
		hotelName = hotel.Name()
		if len(hotel.Rooms()) > 0 {
			logger.Info("Hotel already has rooms, skipping seed", "hotel", hotel.Name(), "rooms", len(hotel.Rooms()))
			return nil
		}

		for _, plan := range floorPlan {
			for _, floor := range plan.floors {
				for n := 1; n <= plan.perFloor; n++ {
					number, err := domain.NewRoomNumber(fmt.Sprintf("%d%02d", floor, n))
					if err != nil {
						return err
					}
					room, err := domain.NewRoom(number, plan.roomType, domain.GuestCapacity{}, s.now())
					if err != nil {
						return err
					}
					if err := hotel.AddRoom(room); err != nil {
						return err
					}
				}
			}
		}
		if err := s.hotelRepo.Save(ctx, hotel); err != nil {
			return err
		}
		added = len(hotel.Rooms())
		return nil
	})
	if err != nil {
		logger.Error("Room seeding rolled back", "error", err)
		return 0, err
	}
	if added > 0 {
		logger.Info("Seeded hotel rooms", "hotel", hotelName, "rooms", added)
	}
	return added, nil
}
