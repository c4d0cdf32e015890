package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/interfaces"
)

// DefaultDialTimeout bounds the TCP connect to the relay.
const DefaultDialTimeout = 30 * time.Second

// Service delivers messages through an authenticated SMTP relay using STARTTLS.
type Service struct {
	host        string
	port        int
	username    string
	password    string
	dialTimeout time.Duration
	startTLS    bool
	tlsConfig   *tls.Config // nil verifies the relay against system roots
	logger      arbor.ILogger
}

var _ interfaces.Mailer = (*Service)(nil)

// NewService creates a mailer for the configured relay. The sender address
// doubles as the SMTP username.
func NewService(config common.EmailConfig, logger arbor.ILogger) *Service {
	return &Service{
		host:        config.SMTPHost,
		port:        config.SMTPPort,
		username:    config.Address,
		password:    config.Password,
		dialTimeout: DefaultDialTimeout,
		startTLS:    true,
		logger:      logger,
	}
}

// Send composes a plain-text message and submits it in a single SMTP session.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	if s.host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if s.username == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}

	msg, err := Compose(Message{
		From:    s.username,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := s.deliver(ctx, addr, auth, to, msg); err != nil {
		s.logger.Error().Err(err).Str("relay", addr).Str("to", to).Msg("Failed to send email")
		return err
	}

	s.logger.Info().Str("relay", addr).Str("to", to).Int("bytes", len(msg)).Msg("Email sent")
	return nil
}

// deliver runs connect, STARTTLS, AUTH, MAIL, RCPT, DATA and QUIT.
func (s *Service) deliver(ctx context.Context, addr string, auth smtp.Auth, to string, msg []byte) error {
	dialer := &net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if s.startTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("SMTP server %s does not support STARTTLS", addr)
		}
		if err := client.StartTLS(s.clientTLSConfig()); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.username); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (s *Service) clientTLSConfig() *tls.Config {
	if s.tlsConfig == nil {
		return &tls.Config{ServerName: s.host}
	}
	cfg := s.tlsConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = s.host
	}
	return cfg
}
