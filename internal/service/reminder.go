package service

import (
	"context"
	"errors"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"
)

type reminderService struct {
	guestRepo   repository.GuestRepository
	bookingRepo repository.BookingRepository
	notifier    NotificationService
	now         func() time.Time
}

func NewReminderService(guestRepo repository.GuestRepository, bookingRepo repository.BookingRepository, notifier NotificationService) ReminderService {
	return &reminderService{guestRepo: guestRepo, bookingRepo: bookingRepo, notifier: notifier, now: time.Now}
}

func (s *reminderService) SendCheckInReminders(ctx context.Context) (int, error) {
	tomorrow := domain.DateOf(s.now()).AddDate(0, 0, 1)
	bookings, err := s.bookingRepo.ListArrivingOn(ctx, tomorrow, domain.BookingStatusConfirmed)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ref := b.Reference().String()
		guest, err := s.guestRepo.GetByID(ctx, b.GuestID())
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Guest missing for booking, skipping reminder", "reference", ref)
			continue
		}
		if err != nil {
			return sent, err
		}
		if s.notifier.SendCheckInReminder(ctx, ref, guest.Email(), b.DateRange().CheckIn()) {
			sent++
		} else {
			logger.Warn("Check-in reminder not delivered", "reference", ref)
		}
	}
	logger.Info("Check-in reminders processed", "date", tomorrow.Format("2006-01-02"), "bookings", len(bookings), "sent", sent)
	return sent, nil
}
