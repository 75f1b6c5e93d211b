package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/repository"

	"github.com/google/uuid"
)

// maxReferenceAttempts bounds how often a colliding booking reference is regenerated.
const maxReferenceAttempts = 3

type bookingService struct {
	guestRepo   repository.GuestRepository
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	tx          repository.Transactor
	payments    PaymentService
	notifier    NotificationService
	now         func() time.Time
}

func NewBookingService(
	guestRepo repository.GuestRepository,
	roomRepo repository.RoomRepository,
	bookingRepo repository.BookingRepository,
	tx repository.Transactor,
	payments PaymentService,
	notifier NotificationService,
) BookingService {
	return &bookingService{
		guestRepo:   guestRepo,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		tx:          tx,
		payments:    payments,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingDetails, error) {
	logger.EnterMethod("bookingService.CreateBooking", "email", input.Guest.Email, "roomType", input.RoomType)
	now := s.now()

	guest, isNew, err := s.findOrBuildGuest(ctx, input.Guest, now)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "step", "guest")
		return nil, err
	}

	dr, err := domain.NewDateRange(input.CheckIn, input.CheckOut, now)
	if err != nil {
		return nil, err
	}
	rate, err := domain.StandardRate(input.RoomType)
	if err != nil {
		return nil, err
	}

	rooms, err := s.availableRooms(ctx, input.RoomType, dr, input.GuestCount)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "step", "availability")
		return nil, err
	}
	if len(rooms) == 0 {
		logger.Info("No rooms available", "roomType", input.RoomType, "checkIn", dr.CheckIn(), "nights", dr.Nights())
		return nil, ErrNoRoomsAvailable
	}
	room := rooms[0]

	total, err := rate.TotalFor(dr)
	if err != nil {
		return nil, err
	}
	booking, err := domain.NewBooking(guest.ID(), room.ID(), dr, input.GuestCount, total, now)
	if err != nil {
		return nil, err
	}

	payment := paymentFor(booking)
	if !s.payments.ProcessPayment(ctx, payment) {
		logger.Warn("Payment declined", "bookingID", booking.ID(), "amount", total.String())
		return nil, ErrPaymentFailed
	}
	if err := booking.ConfirmPayment(); err != nil {
		return nil, err
	}

	if err := s.persistNewBooking(ctx, guest, isNew, booking); err != nil {
		if !s.payments.RefundPayment(ctx, payment) {
			logger.Error("Refund after failed booking save was declined", "bookingID", booking.ID())
		}
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "step", "persist")
		return nil, err
	}

	if !s.notifier.SendBookingConfirmation(ctx, booking.Reference().String(), guest.Email()) {
		logger.WarnContext(ctx, "Booking confirmation not delivered", "reference", booking.Reference().String())
	}

	logger.ExitMethod("bookingService.CreateBooking", "reference", booking.Reference().String(), "room", room.Number().String())
	return &BookingDetails{Booking: booking, RoomNumber: room.Number(), RoomType: room.Type()}, nil
}

func (s *bookingService) findOrBuildGuest(ctx context.Context, in GuestInput, now time.Time) (*domain.Guest, bool, error) {
	existing, err := s.guestRepo.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	guest, err := newGuest(in, now)
	if err != nil {
		return nil, false, err
	}
	return guest, true, nil
}

func newGuest(in GuestInput, now time.Time) (*domain.Guest, error) {
	age, err := domain.NewGuestAge(in.Age)
	if err != nil {
		return nil, err
	}
	return domain.NewGuest(in.FirstName, in.LastName, in.Email, in.Phone, age, now)
}

// persistNewBooking stores the guest (when new) and the booking atomically. Each
// attempt runs in its own transaction since a failed statement poisons the one it ran in.
func (s *bookingService) persistNewBooking(ctx context.Context, guest *domain.Guest, isNew bool, booking *domain.Booking) error {
	var err error
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if isNew {
				if err := s.guestRepo.Save(ctx, guest); err != nil {
					return err
				}
			}
			return s.bookingRepo.Save(ctx, booking)
		})
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return err
		}
		logger.Warn("Booking reference collision, regenerating", "reference", booking.Reference().String(), "attempt", attempt)
		booking.RegenerateReference()
	}
	return err
}

func (s *bookingService) availableRooms(ctx context.Context, roomType domain.RoomType, dr domain.DateRange, guestCount int) ([]*domain.Room, error) {
	rooms, err := s.roomRepo.ListByType(ctx, roomType)
	if err != nil {
		return nil, err
	}
	return filterAvailable(ctx, s.bookingRepo, rooms, dr, guestCount)
}

func filterAvailable(ctx context.Context, bookingRepo repository.BookingRepository, rooms []*domain.Room, dr domain.DateRange, guestCount int) ([]*domain.Room, error) {
	var available []*domain.Room
	for _, room := range rooms {
		if !room.CanAccommodate(guestCount) {
			continue
		}
		overlapping, err := bookingRepo.ListOverlapping(ctx, room.ID(), dr)
		if err != nil {
			return nil, err
		}
		if room.IsAvailableForDates(dr, overlapping) {
			available = append(available, room)
		}
	}
	return available, nil
}

func paymentFor(b *domain.Booking) Payment {
	return Payment{
		BookingID: b.ID(),
		Amount:    b.TotalAmount().Amount(),
		Currency:  b.TotalAmount().Currency(),
		Method:    PaymentMethodMock,
	}
}

func (s *bookingService) GetBooking(ctx context.Context, reference string) (*BookingDetails, error) {
	ref, err := domain.NewBookingReference(reference)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.GetByReference(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.details(ctx, booking)
}

func (s *bookingService) details(ctx context.Context, booking *domain.Booking) (*BookingDetails, error) {
	room, err := s.roomRepo.GetByID(ctx, booking.RoomID())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("room not found for booking %s: %w", booking.Reference(), domain.ErrIntegrity)
	}
	if err != nil {
		return nil, err
	}
	return &BookingDetails{Booking: booking, RoomNumber: room.Number(), RoomType: room.Type()}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, reference string) (*CancellationResult, error) {
	logger.EnterMethod("bookingService.CancelBooking", "reference", reference)
	ref, err := domain.NewBookingReference(reference)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookingRepo.GetByReference(ctx, ref)
		if err != nil {
			return err
		}
		if err := b.Cancel(s.now()); err != nil {
			return err
		}
		booking = b
		return s.bookingRepo.Save(ctx, b)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("booking %s: %w", reference, domain.ErrNotFound)
	}
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "reference", reference)
		return nil, err
	}

	log := logger.WithBooking(booking.Reference().String())
	result := &CancellationResult{Booking: booking}
	if booking.PaymentConfirmed() {
		result.RefundIssued = s.payments.RefundPayment(ctx, paymentFor(booking))
		if !result.RefundIssued {
			log.ErrorContext(ctx, "Refund declined for cancelled booking", "amount", booking.TotalAmount().String())
		}
	}

	guest, err := s.guestRepo.GetByID(ctx, booking.GuestID())
	switch {
	case err == nil:
		result.Notified = s.notifier.SendCancellationConfirmation(ctx, reference, guest.Email(), result.RefundIssued)
	case errors.Is(err, domain.ErrNotFound):
		log.WarnContext(ctx, "Guest missing for cancelled booking, skipping notification")
	default:
		log.ErrorContext(ctx, "Guest lookup failed after cancellation", "error", err)
	}

	logger.ExitMethod("bookingService.CancelBooking", "reference", reference, "refunded", result.RefundIssued)
	return result, nil
}

func (s *bookingService) CheckIn(ctx context.Context, reference string) (*BookingDetails, error) {
	return s.transition(ctx, "CheckIn", reference, func(b *domain.Booking) error {
		return b.CheckIn(s.now())
	})
}

func (s *bookingService) CheckOut(ctx context.Context, reference string) (*BookingDetails, error) {
	return s.transition(ctx, "CheckOut", reference, func(b *domain.Booking) error {
		return b.CheckOut(s.now())
	})
}

func (s *bookingService) transition(ctx context.Context, op, reference string, apply func(*domain.Booking) error) (*BookingDetails, error) {
	method := "bookingService." + op
	logger.EnterMethod(method, "reference", reference)
	ref, err := domain.NewBookingReference(reference)
	if err != nil {
		return nil, err
	}

	var details *BookingDetails
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookingRepo.GetByReference(ctx, ref)
		if err != nil {
			return err
		}
		if err := apply(b); err != nil {
			return err
		}
		if err := s.bookingRepo.Save(ctx, b); err != nil {
			return err
		}
		details, err = s.details(ctx, b)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("booking %s: %w", reference, domain.ErrNotFound)
	}
	if err != nil {
		logger.ExitMethodWithError(method, err, "reference", reference)
		return nil, err
	}
	logger.WithBooking(details.Booking.Reference().String()).InfoContext(ctx, "Booking status changed",
		"operation", op, "status", details.Booking.Status(), "room", details.RoomNumber.String())
	logger.ExitMethod(method, "reference", reference, "status", details.Booking.Status())
	return details, nil
}

func (s *bookingService) GetGuestBookings(ctx context.Context, guestID uuid.UUID) (*GuestBookings, error) {
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	out := &GuestBookings{Guest: guest, Bookings: make([]BookingDetails, 0, len(bookings))}
	for _, b := range bookings {
		d, err := s.details(ctx, b)
		if errors.Is(err, domain.ErrIntegrity) {
			logger.Warn("Skipping booking whose room is gone", "reference", b.Reference().String())
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Bookings = append(out.Bookings, *d)
	}
	return out, nil
}
