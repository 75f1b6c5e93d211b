package service

import (
	"context"
	"errors"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"
)

type guestService struct {
	guestRepo repository.GuestRepository
	now       func() time.Time
}

func NewGuestService(guestRepo repository.GuestRepository) GuestService {
	return &guestService{guestRepo: guestRepo, now: time.Now}
}

func (s *guestService) RegisterGuest(ctx context.Context, in GuestInput) (*domain.Guest, error) {
	_, err := s.guestRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrGuestExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	guest, err := newGuest(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.guestRepo.Save(ctx, guest); err != nil {
		if errors.Is(err, domain.ErrGuestEmailTaken) {
			return nil, ErrGuestExists
		}
		return nil, err
	}
	logger.Info("Guest registered", "guestID", guest.ID())
	return guest, nil
}
