package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/logger"
	"crown-hotels-booking/internal/service"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Could not encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, status, errorResponse{Error: title, Detail: detail})
}

// writeServiceError maps a service error to a status code. fallback is the
// detail reported for unexpected failures so internals are not leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrOverlappingBooking), errors.Is(err, service.ErrGuestExists):
		writeJSONError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, service.ErrNoRoomsAvailable), errors.Is(err, service.ErrPaymentFailed):
		writeJSONError(w, http.StatusBadRequest, "Booking Error", err.Error())
	case domain.IsValidation(err):
		var ve *domain.ValidationError
		errors.As(err, &ve)
		writeJSONError(w, http.StatusBadRequest, "Validation Error", ve.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error", fallback)
	}
}
