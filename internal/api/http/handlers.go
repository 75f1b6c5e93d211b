package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Validation Error", "malformed request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to " + appName,
		"status":  "running",
		"version": appVersion,
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "hotel-booking-system"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, expiresAt, err := h.svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	details, err := h.svc.Bookings.CreateBooking(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, "Booking creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(details))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	details, err := h.svc.Bookings.GetBooking(r.Context(), reference)
	if err != nil {
		writeServiceError(w, r, err, "Booking lookup failed")
		return
	}
	if details == nil {
		writeJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Booking %s not found", reference))
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(details))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	result, err := h.svc.Bookings.CancelBooking(r.Context(), reference)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Booking %s not found", reference))
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "Cancellation failed")
		return
	}
	refunded := result.RefundIssued
	writeJSON(w, http.StatusOK, successResponse{
		Message:      fmt.Sprintf("Booking %s cancelled successfully", reference),
		Success:      true,
		RefundIssued: &refunded,
	})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	auditStaffAction(r, "check_in", reference)
	if _, err := h.svc.Bookings.CheckIn(r.Context(), reference); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Booking %s not found", reference))
			return
		}
		writeServiceError(w, r, err, "Check-in failed")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{
		Message: fmt.Sprintf("Guest checked in successfully for booking %s", reference),
		Success: true,
	})
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	auditStaffAction(r, "check_out", reference)
	if _, err := h.svc.Bookings.CheckOut(r.Context(), reference); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Booking %s not found", reference))
			return
		}
		writeServiceError(w, r, err, "Check-out failed")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{
		Message: fmt.Sprintf("Guest checked out successfully for booking %s", reference),
		Success: true,
	})
}

func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	roomType, ok := roomTypeParam(w, r)
	if !ok {
		return
	}
	rooms, err := h.svc.Rooms.ListRooms(r.Context(), roomType)
	if err != nil {
		writeServiceError(w, r, err, "Room listing failed")
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checkIn, err := parseDate("check_in", q.Get("check_in"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	checkOut, err := parseDate("check_out", q.Get("check_out"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	guestCount, err := strconv.Atoi(q.Get("guest_count"))
	if err != nil || guestCount < 1 || guestCount > 4 {
		writeJSONError(w, http.StatusBadRequest, "Validation Error", "guest_count must be an integer between 1 and 4")
		return
	}
	roomType, ok := roomTypeParam(w, r)
	if !ok {
		return
	}

	rooms, err := h.svc.Availability.CheckRoomAvailability(r.Context(), service.AvailabilityQuery{
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: guestCount,
		RoomType:   roomType,
	})
	if err != nil {
		writeServiceError(w, r, err, "Availability check failed")
		return
	}
	out := make([]availableRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toAvailableRoomResponse(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	guest, err := h.svc.Guests.RegisterGuest(r.Context(), req.toInput())
	if errors.Is(err, service.ErrGuestExists) {
		writeJSONError(w, http.StatusConflict, "Conflict", fmt.Sprintf("Guest with email %s already exists", req.Email))
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "Guest creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, toGuestResponse(guest))
}

func (h *Handler) GetGuestBookings(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	guestID, err := uuid.Parse(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Validation Error", "guest id must be a UUID")
		return
	}
	history, err := h.svc.Bookings.GetGuestBookings(r.Context(), guestID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Guest %s not found", raw))
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "Booking history lookup failed")
		return
	}

	resp := bookingHistoryResponse{
		GuestID:   history.Guest.ID(),
		GuestName: history.Guest.FullName(),
		Bookings:  make([]bookingResponse, 0, len(history.Bookings)),
	}
	for i := range history.Bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&history.Bookings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// roomTypeParam reads the optional room_type filter. A bad value has
// already been answered with 400 when ok is false.
func roomTypeParam(w http.ResponseWriter, r *http.Request) (rt *domain.RoomType, ok bool) {
	raw := r.URL.Query().Get("room_type")
	if raw == "" {
		return nil, true
	}
	parsed, err := domain.ParseRoomType(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Validation Error", err.Error())
		return nil, false
	}
	return &parsed, true
}
