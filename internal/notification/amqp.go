package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	VirtualHost string
	Exchange    string
}

func (c AMQPConfig) url() string {
	user, pass, host, port := c.Username, c.Password, c.Host, c.Port
	if user == "" {
		user = "guest"
	}
	if pass == "" {
		pass = "guest"
	}
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 5672
	}
	return "amqp://" + user + ":" + pass + "@" + host + ":" + strconv.Itoa(port) + "/" + c.VirtualHost
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSender publishes notifications to a topic exchange keyed by message
// kind, leaving delivery to downstream mail workers.
type AMQPSender struct {
	exchange string
	ch       publisher
	closers  []func() error
}

func NewAMQPSender(cfg AMQPConfig) (*AMQPSender, error) {
	conn, err := amqp.Dial(cfg.url())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPSender{exchange: cfg.Exchange, ch: ch, closers: []func() error{ch.Close, conn.Close}}, nil
}

func (s *AMQPSender) Name() string { return "amqp" }

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = s.ch.PublishWithContext(ctx,
		s.exchange,
		"notification."+string(msg.Kind),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.Reference + "." + string(msg.Kind),
			Timestamp:    msg.CreatedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
