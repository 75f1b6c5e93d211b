package service

import (
	"context"
	"testing"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReminderService_SendCheckInReminders(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	room := addRoom(t, store, "101", domain.RoomTypeStandard)
	other := addRoom(t, store, "102", domain.RoomTypeStandard)
	third := addRoom(t, store, "103", domain.RoomTypeStandard)

	age, _ := domain.NewGuestAge(30)
	guest, err := domain.NewGuest("Ann", "Lee", "ann@example.com", "", age, testNow)
	require.NoError(t, err)
	require.NoError(t, store.Guests.Save(ctx, guest))

	confirmed, err := domain.NewBooking(guest.ID(), room.ID(), mustRange(t, 1, 3), 1, domain.MustMoney("200", "GBP"), testNow)
	require.NoError(t, err)
	require.NoError(t, confirmed.ConfirmPayment())
	require.NoError(t, store.Bookings.Save(ctx, confirmed))

	pending, err := domain.NewBooking(guest.ID(), other.ID(), mustRange(t, 1, 2), 1, domain.MustMoney("100", "GBP"), testNow)
	require.NoError(t, err)
	require.NoError(t, store.Bookings.Save(ctx, pending))

	orphan, err := domain.NewBooking(uuid.New(), third.ID(), mustRange(t, 1, 2), 1, domain.MustMoney("100", "GBP"), testNow)
	require.NoError(t, err)
	require.NoError(t, orphan.ConfirmPayment())
	require.NoError(t, store.Bookings.Save(ctx, orphan))

	notifier := new(MockNotifier)
	notifier.On("SendCheckInReminder", ctx, confirmed.Reference().String(), "ann@example.com", domain.DateOf(day(1))).Return(true).Once()

	svc := NewReminderService(store.Guests, store.Bookings, notifier).(*reminderService)
	svc.now = fixedClock(testNow)

	sent, err := svc.SendCheckInReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	notifier.AssertExpectations(t)
	notifier.AssertNotCalled(t, "SendCheckInReminder", mock.Anything, pending.Reference().String(), mock.Anything, mock.Anything)
}
