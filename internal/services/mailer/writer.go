package mailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ternarybob/cryptodigest/internal/interfaces"
)

// WriterMailer writes composed messages to an io.Writer instead of a relay.
// Used by the preview command.
type WriterMailer struct {
	mu   sync.Mutex
	from string
	out  io.Writer
}

var _ interfaces.Mailer = (*WriterMailer)(nil)

func NewWriterMailer(from string, out io.Writer) *WriterMailer {
	return &WriterMailer{from: from, out: out}
}

func (m *WriterMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := Compose(Message{
		From:    m.from,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.out.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
