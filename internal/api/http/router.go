// Package http exposes the booking use cases over a JSON REST API.
package http

import (
	"net/http"

	"crown-hotels-booking/internal/security"
	"crown-hotels-booking/internal/service"

	"github.com/gorilla/mux"
)

const (
	appName    = "Crown Hotels Booking System"
	appVersion = "0.1.0"
)

// Services groups the use cases the API serves.
type Services struct {
	Bookings     service.BookingService
	Availability service.AvailabilityService
	Guests       service.GuestService
	Rooms        service.RoomService
	Auth         service.AuthService
}

type Handler struct {
	svc Services
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// NewRouter wires every route with logging, panic recovery and staff auth.
func NewRouter(svc Services, tm security.TokenManager) *mux.Router {
	h := NewHandler(svc)
	auth := NewAuthMiddleware(tm)

	r := mux.NewRouter()
	r.Use(loggingMiddleware, recoveryMiddleware, auth.Handler)
	r.NotFoundHandler = loggingMiddleware(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = loggingMiddleware(http.HandlerFunc(methodNotAllowed))

	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{reference}", h.GetBooking).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{reference}", h.CancelBooking).Methods(http.MethodDelete)
	r.HandleFunc("/bookings/{reference}/check-in", h.CheckIn).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{reference}/check-out", h.CheckOut).Methods(http.MethodPost)

	r.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	r.HandleFunc("/rooms/availability", h.CheckAvailability).Methods(http.MethodGet)

	r.HandleFunc("/guests", h.RegisterGuest).Methods(http.MethodPost)
	r.HandleFunc("/guests/{id}/bookings", h.GetGuestBookings).Methods(http.MethodGet)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Not Found", "")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
}
