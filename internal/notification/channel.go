package notification

import (
	"fmt"

	"crown-hotels-booking/internal/config"
)

// NewSenderFromConfig builds the Sender for the configured channel. The
// returned close func releases broker connections and is never nil.
func NewSenderFromConfig(cfg config.NotificationConfig) (Sender, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Channel {
	case config.ChannelLog, "":
		return NewLogSender(), noop, nil
	case config.ChannelSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}), noop, nil
	case config.ChannelSendGrid:
		return NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGrid.APIKey,
			FromEmail: cfg.SendGrid.FromEmail,
			FromName:  cfg.SendGrid.FromName,
		}), noop, nil
	case config.ChannelAMQP:
		sender, err := NewAMQPSender(AMQPConfig{
			Host:        cfg.AMQP.Host,
			Port:        cfg.AMQP.Port,
			Username:    cfg.AMQP.User,
			Password:    cfg.AMQP.Password,
			VirtualHost: cfg.AMQP.VirtualHost,
			Exchange:    cfg.AMQP.Exchange,
		})
		if err != nil {
			return nil, noop, err
		}
		return sender, sender.Close, nil
	}
	return nil, noop, fmt.Errorf("unsupported notification channel: %s", cfg.Channel)
}
