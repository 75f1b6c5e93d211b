package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/notification"
	"crown-hotels-booking/internal/repository/memory"
	"crown-hotels-booking/internal/security"
	"crown-hotels-booking/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-long-enough-123"

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*service.BookingDetails, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingDetails), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, ref string) (*service.BookingDetails, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingDetails), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, ref string) (*service.CancellationResult, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CancellationResult), args.Error(1)
}

func (m *MockBookingService) CheckIn(ctx context.Context, ref string) (*service.BookingDetails, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingDetails), args.Error(1)
}

func (m *MockBookingService) CheckOut(ctx context.Context, ref string) (*service.BookingDetails, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingDetails), args.Error(1)
}

func (m *MockBookingService) GetGuestBookings(ctx context.Context, id uuid.UUID) (*service.GuestBookings, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GuestBookings), args.Error(1)
}

type MockGuestService struct{ mock.Mock }

func (m *MockGuestService) RegisterGuest(ctx context.Context, in service.GuestInput) (*domain.Guest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func staffToken(t *testing.T, tm security.TokenManager) string {
	t.Helper()
	token, _, err := tm.GenerateAccessToken("frontdesk", "staff")
	require.NoError(t, err)
	return "Bearer " + token
}

func sampleDetails(t *testing.T) *service.BookingDetails {
	t.Helper()
	now := time.Now()
	dr, err := domain.NewDateRange(domain.DateOf(now).AddDate(0, 0, 5), domain.DateOf(now).AddDate(0, 0, 7), now)
	require.NoError(t, err)
	b, err := domain.NewBooking(uuid.New(), uuid.New(), dr, 2, domain.MustMoney("300.00", "GBP"), now)
	require.NoError(t, err)
	number, err := domain.NewRoomNumber("101")
	require.NoError(t, err)
	return &service.BookingDetails{Booking: b, RoomNumber: number, RoomType: domain.RoomTypeStandard}
}

// newLiveRouter wires the real services over the memory store with a seeded hotel.
func newLiveRouter(t *testing.T) (http.Handler, *notification.LogSender) {
	t.Helper()
	store := memory.NewStore()
	sender := notification.NewLogSender()
	notifier := notification.NewNotifier(sender)
	rooms := service.NewRoomService(store.Rooms, store.Hotels, store)
	_, err := rooms.SeedRooms(context.Background())
	require.NoError(t, err)

	tm := security.NewTokenManager(testSecret, time.Hour)
	svc := Services{
		Bookings:     service.NewBookingService(store.Guests, store.Rooms, store.Bookings, store, service.NewMockPaymentService(), notifier),
		Availability: service.NewAvailabilityService(store.Rooms, store.Bookings),
		Guests:       service.NewGuestService(store.Guests),
		Rooms:        rooms,
		Auth:         service.NewAuthService(nil, tm),
	}
	return NewRouter(svc, tm), sender
}

func futureDate(days int) string {
	return domain.DateOf(time.Now()).AddDate(0, 0, days).Format(dateLayout)
}

func bookingBody(email string) createBookingRequest {
	return createBookingRequest{
		Guest:      guestRequest{FirstName: "Ada", LastName: "Lovelace", Email: email, Phone: "+44 20 7946 0000", Age: 36},
		RoomType:   "standard",
		CheckIn:    futureDate(10),
		CheckOut:   futureDate(13),
		GuestCount: 2,
	}
}

func TestRootAndHealth(t *testing.T) {
	router, _ := newLiveRouter(t)

	rec := do(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))

	rec = do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestBookingLifecycle_OverHTTP(t *testing.T) {
	router, sender := newLiveRouter(t)

	rec := do(t, router, http.MethodPost, "/bookings", bookingBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[bookingResponse](t, rec)
	assert.Len(t, created.Reference, 10)
	assert.Equal(t, "CONFIRMED", created.Status)
	assert.True(t, created.PaymentConfirmed)
	assert.Equal(t, "STANDARD", created.RoomType)
	assert.Equal(t, "300.00", created.TotalAmount)
	assert.Equal(t, "GBP", created.Currency)
	assert.Len(t, sender.History(created.Reference), 1)

	rec = do(t, router, http.MethodGet, "/bookings/"+created.Reference, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[bookingResponse](t, rec).ID)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/guests/%s/bookings", created.GuestID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[bookingHistoryResponse](t, rec)
	assert.Equal(t, "Ada Lovelace", history.GuestName)
	require.Len(t, history.Bookings, 1)

	rec = do(t, router, http.MethodDelete, "/bookings/"+created.Reference, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode[successResponse](t, rec)
	assert.True(t, cancelled.Success)
	require.NotNil(t, cancelled.RefundIssued)
	assert.True(t, *cancelled.RefundIssued)
	assert.Len(t, sender.History(created.Reference), 2)

	rec = do(t, router, http.MethodGet, "/bookings/"+created.Reference, nil)
	assert.Equal(t, "CANCELLED", decode[bookingResponse](t, rec).Status)
}

func TestCreateBooking_Validation(t *testing.T) {
	router, _ := newLiveRouter(t)

	tooYoung := bookingBody("kid@example.com")
	tooYoung.Guest.Age = 17
	rec := do(t, router, http.MethodPost, "/bookings", tooYoung)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrGuestTooYoung.Error(), decode[errorResponse](t, rec).Detail)

	badType := bookingBody("a@example.com")
	badType.RoomType = "penthouse"
	rec = do(t, router, http.MethodPost, "/bookings", badType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	reversed := bookingBody("a@example.com")
	reversed.CheckIn, reversed.CheckOut = reversed.CheckOut, reversed.CheckIn
	rec = do(t, router, http.MethodPost, "/bookings", reversed)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tomorrow := bookingBody("a@example.com")
	tomorrow.CheckIn = futureDate(0)
	rec = do(t, router, http.MethodPost, "/bookings", tomorrow)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrLeadTime.Error(), decode[errorResponse](t, rec).Detail)

	rec = do(t, router, http.MethodPost, "/bookings", map[string]any{"unexpected": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	crowded := bookingBody("a@example.com")
	crowded.GuestCount = 5
	rec = do(t, router, http.MethodPost, "/bookings", crowded)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBooking_Errors(t *testing.T) {
	router, _ := newLiveRouter(t)

	rec := do(t, router, http.MethodGet, "/bookings/ABCDEFGHIJ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking ABCDEFGHIJ not found", decode[errorResponse](t, rec).Detail)

	rec = do(t, router, http.MethodGet, "/bookings/SHORT", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBooking_NotFound(t *testing.T) {
	router, _ := newLiveRouter(t)
	rec := do(t, router, http.MethodDelete, "/bookings/ABCDEFGHIJ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRooms(t *testing.T) {
	router, _ := newLiveRouter(t)

	rec := do(t, router, http.MethodGet, "/rooms", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]roomResponse](t, rec), 100)

	rec = do(t, router, http.MethodGet, "/rooms?room_type=suite", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suites := decode[[]roomResponse](t, rec)
	assert.Len(t, suites, 10)
	for _, r := range suites {
		assert.Equal(t, "SUITE", r.RoomType)
	}

	rec = do(t, router, http.MethodGet, "/rooms?room_type=attic", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAvailability(t *testing.T) {
	router, _ := newLiveRouter(t)

	path := fmt.Sprintf("/rooms/availability?check_in=%s&check_out=%s&guest_count=3&room_type=DELUXE", futureDate(4), futureDate(6))
	rec := do(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rooms := decode[[]availableRoomResponse](t, rec)
	assert.Len(t, rooms, 40)
	assert.Equal(t, "200.00", rooms[0].PricePerNight)
	assert.Equal(t, "400.00", rooms[0].TotalPrice)

	rec = do(t, router, http.MethodGet, "/rooms/availability?check_in=tomorrow&check_out=x&guest_count=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path = fmt.Sprintf("/rooms/availability?check_in=%s&check_out=%s&guest_count=9", futureDate(4), futureDate(6))
	rec = do(t, router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterGuest(t *testing.T) {
	router, _ := newLiveRouter(t)
	body := guestRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "555-0100", Age: 45}

	rec := do(t, router, http.MethodPost, "/guests", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	guest := decode[guestResponse](t, rec)
	assert.Equal(t, "grace@example.com", guest.Email)
	assert.Equal(t, 45, guest.Age)

	rec = do(t, router, http.MethodPost, "/guests", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Guest with email grace@example.com already exists", decode[errorResponse](t, rec).Detail)

	body.Email = "not-an-email"
	rec = do(t, router, http.MethodPost, "/guests", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGuestBookings_Errors(t *testing.T) {
	router, _ := newLiveRouter(t)

	rec := do(t, router, http.MethodGet, "/guests/not-a-uuid/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/guests/"+uuid.NewString()+"/bookings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckIn_RequiresStaffToken(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour)
	bookings := new(MockBookingService)
	router := NewRouter(Services{Bookings: bookings}, tm)

	rec := do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-in", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-out", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := security.NewTokenManager("another-secret-that-is-long-enough-456", time.Hour)
	rec = do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-in", nil, "Authorization", staffToken(t, other))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bookings.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "CheckOut", mock.Anything, mock.Anything)
}

func TestCheckInAndOut_WithStaffToken(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour)
	bookings := new(MockBookingService)
	router := NewRouter(Services{Bookings: bookings}, tm)
	auth := staffToken(t, tm)

	bookings.On("CheckIn", mock.Anything, "ABCDEFGHIJ").Return(sampleDetails(t), nil).Once()
	rec := do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-in", nil, "Authorization", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Guest checked in successfully for booking ABCDEFGHIJ", decode[successResponse](t, rec).Message)

	bookings.On("CheckIn", mock.Anything, "ZZZZZZZZZZ").Return(nil, fmt.Errorf("booking ZZZZZZZZZZ: %w", domain.ErrNotFound)).Once()
	rec = do(t, router, http.MethodPost, "/bookings/ZZZZZZZZZZ/check-in", nil, "Authorization", auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	bookings.On("CheckIn", mock.Anything, "EARLYEARLY").Return(nil, domain.ErrCheckInTooEarly).Once()
	rec = do(t, router, http.MethodPost, "/bookings/EARLYEARLY/check-in", nil, "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ErrCheckInTooEarly.Error(), decode[errorResponse](t, rec).Detail)

	bookings.On("CheckOut", mock.Anything, "ABCDEFGHIJ").Return(nil, domain.ErrNotCheckedIn).Once()
	rec = do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-out", nil, "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bookings.AssertExpectations(t)
}

func TestCheckIn_LogsOperator(t *testing.T) {
	var buf bytes.Buffer
	logger.InitializeWithWriter(&buf, "info", "text")
	t.Cleanup(func() { logger.Initialize("info", "text") })

	tm := security.NewTokenManager(testSecret, time.Hour)
	bookings := new(MockBookingService)
	bookings.On("CheckIn", mock.Anything, "ABCDEFGHIJ").Return(sampleDetails(t), nil).Once()
	router := NewRouter(Services{Bookings: bookings}, tm)

	rec := do(t, router, http.MethodPost, "/bookings/ABCDEFGHIJ/check-in", nil, "Authorization", staffToken(t, tm))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "msg=\"Staff action\"")
	assert.Contains(t, buf.String(), "action=check_in")
	assert.Contains(t, buf.String(), "staff=frontdesk")
	assert.Contains(t, buf.String(), "reference=ABCDEFGHIJ")
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour)

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"no rooms", service.ErrNoRoomsAvailable, http.StatusBadRequest, service.ErrNoRoomsAvailable.Error()},
		{"payment declined", service.ErrPaymentFailed, http.StatusBadRequest, service.ErrPaymentFailed.Error()},
		{"overlap", domain.ErrOverlappingBooking, http.StatusConflict, domain.ErrOverlappingBooking.Error()},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Booking creation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := new(MockBookingService)
			bookings.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, tt.err)
			router := NewRouter(Services{Bookings: bookings}, tm)

			rec := do(t, router, http.MethodPost, "/bookings", bookingBody("ada@example.com"))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.detail, decode[errorResponse](t, rec).Detail)
		})
	}
}

func TestRegisterGuest_InternalError(t *testing.T) {
	guests := new(MockGuestService)
	guests.On("RegisterGuest", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))
	router := NewRouter(Services{Guests: guests}, security.NewTokenManager(testSecret, time.Hour))

	rec := do(t, router, http.MethodPost, "/guests", guestRequest{FirstName: "A", LastName: "B", Email: "a@b.c", Age: 30})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Guest creation failed", decode[errorResponse](t, rec).Detail)
}

func TestRecoveryMiddleware(t *testing.T) {
	bookings := new(MockBookingService)
	bookings.On("GetBooking", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })
	router := NewRouter(Services{Bookings: bookings}, security.NewTokenManager(testSecret, time.Hour))

	rec := do(t, router, http.MethodGet, "/bookings/ABCDEFGHIJ", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggingMiddleware_PropagatesTraceparent(t *testing.T) {
	router, _ := newLiveRouter(t)
	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	rec := do(t, router, http.MethodGet, "/health", nil, "traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-Id"))

	rec = do(t, router, http.MethodGet, "/health", nil, "traceparent", "garbage")
	_, err := uuid.Parse(rec.Header().Get("X-Trace-Id"))
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	tm := security.NewTokenManager(testSecret, time.Hour)
	auth := new(MockAuthService)
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	auth.On("Login", mock.Anything, "frontdesk", "s3cret").Return("signed", expires, nil)
	auth.On("Login", mock.Anything, "frontdesk", "wrong").Return("", time.Time{}, service.ErrInvalidCredentials)
	router := NewRouter(Services{Auth: auth}, tm)

	rec := do(t, router, http.MethodPost, "/auth/login", loginRequest{Username: "frontdesk", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[loginResponse](t, rec)
	assert.Equal(t, "signed", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.True(t, expires.Equal(resp.ExpiresAt))

	rec = do(t, router, http.MethodPost, "/auth/login", loginRequest{Username: "frontdesk", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newLiveRouter(t)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/nope", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, router, http.MethodPut, "/bookings", nil).Code)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
