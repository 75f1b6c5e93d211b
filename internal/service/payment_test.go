package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPaymentService(t *testing.T) {
	ctx := context.Background()
	payment := func(amount string) Payment {
		return Payment{BookingID: uuid.New(), Amount: decimal.RequireFromString(amount), Currency: "GBP", Method: PaymentMethodMock}
	}

	t.Run("ChargeLimits", func(t *testing.T) {
		svc := NewMockPaymentService()
		assert.True(t, svc.ProcessPayment(ctx, payment("200.00")))
		assert.True(t, svc.ProcessPayment(ctx, payment("10000.00")))
		assert.False(t, svc.ProcessPayment(ctx, payment("10000.01")))
		assert.False(t, svc.ProcessPayment(ctx, payment("0")))
		assert.False(t, svc.ProcessPayment(ctx, payment("-5")))
	})

	t.Run("Refund", func(t *testing.T) {
		svc := NewMockPaymentService()
		p := payment("200.00")
		require.True(t, svc.ProcessPayment(ctx, p))

		over := p
		over.Amount = decimal.RequireFromString("200.01")
		assert.False(t, svc.RefundPayment(ctx, over))

		assert.True(t, svc.RefundPayment(ctx, p))
		rec, ok := svc.Refund(p.BookingID)
		require.True(t, ok)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, "refund_txn_"+p.BookingID.String(), rec.TransactionID)

		charged, ok := svc.Payment(p.BookingID)
		require.True(t, ok)
		assert.Equal(t, "mock_txn_"+p.BookingID.String(), charged.TransactionID)
	})

	t.Run("RefundWithoutPayment", func(t *testing.T) {
		svc := NewMockPaymentService()
		assert.False(t, svc.RefundPayment(ctx, payment("10")))
	})
}
