// Package notification delivers guest messages over a pluggable channel.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crown-hotels-booking/internal/logger"
)

type Kind string

const (
	KindBookingConfirmation      Kind = "booking_confirmation"
	KindCancellationConfirmation Kind = "cancellation_confirmation"
	KindCheckInReminder          Kind = "check_in_reminder"
)

var ErrInvalidRecipient = errors.New("invalid email address")

// Message is one guest notification, independent of the channel carrying it.
type Message struct {
	Kind      Kind       `json:"type"`
	Reference string     `json:"booking_reference"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject"`
	Body      string     `json:"message"`
	CheckIn   *time.Time `json:"check_in,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Sender is a delivery channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Notifier renders guest messages and hands them to a Sender. Failures are
// logged and reported as false; callers treat delivery as best effort.
type Notifier struct {
	sender Sender
	now    func() time.Time
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender, now: time.Now}
}

func (n *Notifier) SendBookingConfirmation(ctx context.Context, reference, email string) bool {
	return n.deliver(ctx, Message{
		Kind:      KindBookingConfirmation,
		Reference: reference,
		Recipient: email,
		Subject:   "Booking Confirmation - " + reference,
		Body:      fmt.Sprintf("Your booking %s has been confirmed!", reference),
	})
}

// SendCancellationConfirmation mentions the refund only when one was issued.
func (n *Notifier) SendCancellationConfirmation(ctx context.Context, reference, email string, refunded bool) bool {
	body := fmt.Sprintf("Your booking %s has been cancelled.", reference)
	if refunded {
		body = fmt.Sprintf("Your booking %s has been cancelled and refunded.", reference)
	}
	return n.deliver(ctx, Message{
		Kind:      KindCancellationConfirmation,
		Reference: reference,
		Recipient: email,
		Subject:   "Booking Cancellation - " + reference,
		Body:      body,
	})
}

func (n *Notifier) SendCheckInReminder(ctx context.Context, reference, email string, checkIn time.Time) bool {
	return n.deliver(ctx, Message{
		Kind:      KindCheckInReminder,
		Reference: reference,
		Recipient: email,
		Subject:   "Your stay starts tomorrow - " + reference,
		Body:      fmt.Sprintf("We look forward to welcoming you on %s. Booking reference: %s.", checkIn.Format("Monday 2 January 2006"), reference),
		CheckIn:   &checkIn,
	})
}

func (n *Notifier) deliver(ctx context.Context, msg Message) bool {
	channel := n.sender.Name()
	logger.ExternalServiceCall(channel, string(msg.Kind), "reference", msg.Reference, "recipient", msg.Recipient)

	if !validRecipient(msg.Recipient) {
		logger.ExternalServiceResult(channel, string(msg.Kind), ErrInvalidRecipient, "recipient", msg.Recipient)
		return false
	}
	msg.CreatedAt = n.now()

	if err := n.sender.Send(ctx, msg); err != nil {
		logger.ExternalServiceResult(channel, string(msg.Kind), err, "reference", msg.Reference)
		return false
	}
	logger.ExternalServiceResult(channel, string(msg.Kind), nil, "reference", msg.Reference)
	return true
}

func validRecipient(email string) bool {
	return strings.TrimSpace(email) != "" && strings.Contains(email, "@")
}
