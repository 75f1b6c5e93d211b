package service

import (
	"context"
	"fmt"
	"sync"

	"crown-hotels-booking/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxMockPayment is the largest charge the mock gateway accepts.
var MaxMockPayment = decimal.RequireFromString("10000.00")

// PaymentRecord is a charge or refund the mock gateway has accepted.
type PaymentRecord struct {
	BookingID     uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	Method        string
	TransactionID string
}

// MockPaymentService accepts any positive charge up to MaxMockPayment and
// refunds up to the amount originally charged for the booking.
type MockPaymentService struct {
	mu       sync.Mutex
	payments map[uuid.UUID]PaymentRecord
	refunds  map[uuid.UUID]PaymentRecord
}

func NewMockPaymentService() *MockPaymentService {
	return &MockPaymentService{
		payments: make(map[uuid.UUID]PaymentRecord),
		refunds:  make(map[uuid.UUID]PaymentRecord),
	}
}

func (s *MockPaymentService) ProcessPayment(_ context.Context, p Payment) bool {
	logger.ExternalServiceCall("payment", "charge", "bookingID", p.BookingID, "amount", p.Amount.String(), "currency", p.Currency)

	if !p.Amount.IsPositive() {
		logger.ExternalServiceResult("payment", "charge", fmt.Errorf("invalid payment amount %s", p.Amount), "bookingID", p.BookingID)
		return false
	}
	if p.Amount.GreaterThan(MaxMockPayment) {
		logger.ExternalServiceResult("payment", "charge", fmt.Errorf("payment amount too large: %s", p.Amount), "bookingID", p.BookingID)
		return false
	}

	s.mu.Lock()
	s.payments[p.BookingID] = PaymentRecord{
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		TransactionID: "mock_txn_" + p.BookingID.String(),
	}
	s.mu.Unlock()

	logger.ExternalServiceResult("payment", "charge", nil, "bookingID", p.BookingID)
	return true
}

func (s *MockPaymentService) RefundPayment(_ context.Context, p Payment) bool {
	logger.ExternalServiceCall("payment", "refund", "bookingID", p.BookingID, "amount", p.Amount.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.payments[p.BookingID]
	if !ok {
		logger.ExternalServiceResult("payment", "refund", fmt.Errorf("no original payment"), "bookingID", p.BookingID)
		return false
	}
	if p.Amount.GreaterThan(original.Amount) {
		logger.ExternalServiceResult("payment", "refund",
			fmt.Errorf("refund %s exceeds original payment %s", p.Amount, original.Amount), "bookingID", p.BookingID)
		return false
	}

	s.refunds[p.BookingID] = PaymentRecord{
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		TransactionID: "refund_txn_" + p.BookingID.String(),
	}
	logger.ExternalServiceResult("payment", "refund", nil, "bookingID", p.BookingID)
	return true
}

func (s *MockPaymentService) Payment(bookingID uuid.UUID) (PaymentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.payments[bookingID]
	return r, ok
}

func (s *MockPaymentService) Refund(bookingID uuid.UUID) (PaymentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.refunds[bookingID]
	return r, ok
}
