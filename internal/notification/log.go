package notification

import (
	"context"
	"strings"
	"sync"

	"crown-hotels-booking/internal/logger"
)

// DefaultLogHistory is how many recent messages a LogSender keeps.
const DefaultLogHistory = 200

// LogSender writes messages to the application log and keeps the most
// recent ones in memory. It is the default channel for development and tests.
type LogSender struct {
	mu    sync.Mutex
	sent  []Message
	limit int
}

func NewLogSender() *LogSender {
	return NewLogSenderWithLimit(DefaultLogHistory)
}

// NewLogSenderWithLimit keeps at most limit messages; zero or less keeps none.
func NewLogSenderWithLimit(limit int) *LogSender {
	return &LogSender{limit: limit}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg Message) error {
	logger.Info("Notification sent", "type", msg.Kind, "reference", msg.Reference, "recipient", msg.Recipient, "subject", msg.Subject)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit <= 0 {
		return nil
	}
	if len(s.sent) >= s.limit {
		// drop the oldest
		n := copy(s.sent, s.sent[len(s.sent)-s.limit+1:])
		s.sent = s.sent[:n]
	}
	s.sent = append(s.sent, msg)
	return nil
}

// History returns the retained messages for a booking reference, oldest first.
func (s *LogSender) History(reference string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Message
	for _, m := range s.sent {
		if strings.EqualFold(m.Reference, reference) {
			out = append(out, m)
		}
	}
	return out
}

func (s *LogSender) All() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
