package http

import (
	"fmt"
	"strings"
	"time"

	"crown-hotels-booking/internal/domain"
	"crown-hotels-booking/internal/service"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type guestRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       int    `json:"age"`
}

func (g guestRequest) validate() error {
	switch {
	case strings.TrimSpace(g.FirstName) == "":
		return domain.ErrFirstNameRequired
	case strings.TrimSpace(g.LastName) == "":
		return domain.ErrLastNameRequired
	case strings.TrimSpace(g.Email) == "":
		return domain.ErrEmailRequired
	case !strings.Contains(g.Email, "@"):
		return domain.NewValidationError("Email address is not valid")
	case g.Age == 0:
		return domain.ErrGuestAgeRequired
	}
	return nil
}

func (g guestRequest) toInput() service.GuestInput {
	return service.GuestInput{
		FirstName: strings.TrimSpace(g.FirstName),
		LastName:  strings.TrimSpace(g.LastName),
		Email:     strings.TrimSpace(g.Email),
		Phone:     strings.TrimSpace(g.Phone),
		Age:       g.Age,
	}
}

type createBookingRequest struct {
	Guest      guestRequest `json:"guest"`
	RoomType   string       `json:"room_type"`
	CheckIn    string       `json:"check_in"`
	CheckOut   string       `json:"check_out"`
	GuestCount int          `json:"guest_count"`
}

func (req createBookingRequest) toInput() (service.CreateBookingInput, error) {
	if err := req.Guest.validate(); err != nil {
		return service.CreateBookingInput{}, err
	}
	rt, err := domain.ParseRoomType(req.RoomType)
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	checkIn, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	checkOut, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		return service.CreateBookingInput{}, err
	}
	if !checkOut.After(checkIn) {
		return service.CreateBookingInput{}, domain.NewValidationError("Check-out date must be after check-in date")
	}
	if req.GuestCount < 1 || req.GuestCount > 4 {
		return service.CreateBookingInput{}, domain.NewValidationError("Guest count must be between 1 and 4")
	}
	return service.CreateBookingInput{
		Guest:      req.Guest.toInput(),
		RoomType:   rt,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.GuestCount,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, domain.NewValidationError(field + " is required")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return t, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type bookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	Reference        string     `json:"reference"`
	GuestID          uuid.UUID  `json:"guest_id"`
	RoomID           uuid.UUID  `json:"room_id"`
	RoomNumber       string     `json:"room_number"`
	RoomType         string     `json:"room_type"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	GuestCount       int        `json:"guest_count"`
	TotalAmount      string     `json:"total_amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	PaymentConfirmed bool       `json:"payment_confirmed"`
	CreatedAt        time.Time  `json:"created_at"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	CheckedInAt      *time.Time `json:"checked_in_at"`
	CheckedOutAt     *time.Time `json:"checked_out_at"`
}

func toBookingResponse(d *service.BookingDetails) bookingResponse {
	b := d.Booking
	return bookingResponse{
		ID:               b.ID(),
		Reference:        b.Reference().String(),
		GuestID:          b.GuestID(),
		RoomID:           b.RoomID(),
		RoomNumber:       d.RoomNumber.String(),
		RoomType:         string(d.RoomType),
		CheckIn:          b.DateRange().CheckIn().Format(dateLayout),
		CheckOut:         b.DateRange().CheckOut().Format(dateLayout),
		GuestCount:       b.GuestCount(),
		TotalAmount:      b.TotalAmount().Amount().StringFixed(2),
		Currency:         b.TotalAmount().Currency(),
		Status:           string(b.Status()),
		PaymentConfirmed: b.PaymentConfirmed(),
		CreatedAt:        b.CreatedAt(),
		CancelledAt:      b.CancelledAt(),
		CheckedInAt:      b.CheckedInAt(),
		CheckedOutAt:     b.CheckedOutAt(),
	}
}

type roomResponse struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	RoomType    string    `json:"room_type"`
	MaxCapacity int       `json:"max_capacity"`
	IsAvailable bool      `json:"is_available"`
}

func toRoomResponse(r *domain.Room) roomResponse {
	return roomResponse{
		ID:          r.ID(),
		Number:      r.Number().String(),
		RoomType:    string(r.Type()),
		MaxCapacity: r.MaxCapacity().Value(),
		IsAvailable: r.IsAvailable(),
	}
}

type availableRoomResponse struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	RoomType      string    `json:"room_type"`
	MaxCapacity   int       `json:"max_capacity"`
	PricePerNight string    `json:"price_per_night"`
	TotalPrice    string    `json:"total_price"`
	Currency      string    `json:"currency"`
}

func toAvailableRoomResponse(r service.AvailableRoom) availableRoomResponse {
	return availableRoomResponse{
		ID:            r.RoomID,
		Number:        r.Number.String(),
		RoomType:      string(r.RoomType),
		MaxCapacity:   r.MaxCapacity,
		PricePerNight: r.PricePerNight.Amount().StringFixed(2),
		TotalPrice:    r.TotalPrice.Amount().StringFixed(2),
		Currency:      r.TotalPrice.Currency(),
	}
}

type guestResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}

func toGuestResponse(g *domain.Guest) guestResponse {
	return guestResponse{
		ID:        g.ID(),
		FirstName: g.FirstName(),
		LastName:  g.LastName(),
		Email:     g.Email(),
		Phone:     g.Phone(),
		Age:       g.Age().Value(),
		CreatedAt: g.CreatedAt(),
	}
}

type bookingHistoryResponse struct {
	GuestID   uuid.UUID         `json:"guest_id"`
	GuestName string            `json:"guest_name"`
	Bookings  []bookingResponse `json:"bookings"`
}

type successResponse struct {
	Message      string `json:"message"`
	Success      bool   `json:"success"`
	RefundIssued *bool  `json:"refund_issued,omitempty"`
}
