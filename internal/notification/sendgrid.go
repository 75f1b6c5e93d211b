package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers notifications through the SendGrid v3 API.
type SendGridSender struct {
	from *mail.Email
	send func(ctx context.Context, m *mail.SGMailV3) (status int, body string, err error)
}

func NewSendGridSender(cfg SendGridConfig) *SendGridSender {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &SendGridSender{
		from: mail.NewEmail(cfg.FromName, cfg.FromEmail),
		send: func(ctx context.Context, m *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, m)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (s *SendGridSender) Name() string { return "sendgrid" }

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail("", msg.Recipient)
	m := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, "<p>"+msg.Body+"</p>")
	m.SetHeader("X-Booking-Reference", msg.Reference)

	status, body, err := s.send(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
	}
	return nil
}
