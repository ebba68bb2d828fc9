package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"deadline_tracker/pkg/logging"
	"deadline_tracker/pkg/retry"
)

var ErrNotConfigured = errors.New("email not configured")

type Message struct {
	To      string
	Subject string
	Plain   string
	HTML    string
}

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Retries    int
	RetryDelay time.Duration
}

func (c Config) configured() bool {
	return c.Username != "" && c.Password != ""
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Mailer struct {
	cfg     Config
	client  sender
	breaker *retry.CircuitBreaker
	logger  *logging.Logger
}

// New returns a Mailer that fails every Send with ErrNotConfigured when
// credentials are missing.
func New(cfg Config, logger *logging.Logger) (*Mailer, error) {
	if !cfg.configured() {
		return newWithSender(cfg, nil, logger), nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return newWithSender(cfg, client, logger), nil
}

func newWithSender(cfg Config, client sender, logger *logging.Logger) *Mailer {
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	return &Mailer{
		cfg:     cfg,
		client:  client,
		breaker: retry.NewCircuitBreaker(5, time.Minute),
		logger:  logger,
	}
}

func (m *Mailer) Configured() bool {
	return m.client != nil
}

func (m *Mailer) Send(ctx context.Context, message *Message) error {
	if m.client == nil {
		return ErrNotConfigured
	}

	msg, err := m.build(message)
	if err != nil {
		return err
	}

	_, err = retry.RetryWithCircuitBreaker(ctx, m.breaker, m.cfg.Retries, m.cfg.RetryDelay, func() (struct{}, error) {
		sendErr := m.client.DialAndSendWithContext(ctx, msg)
		if sendErr != nil {
			m.logger.Warn(ctx, "smtp send attempt failed",
				zap.String("to", message.To),
				zap.Error(sendErr),
			)
			return struct{}{}, classify(sendErr)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", message.To, err)
	}
	return nil
}

func (m *Mailer) build(message *Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.sender()); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Plain)
	if message.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, message.HTML)
	}
	return msg, nil
}

func classify(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && sendErr.IsTemp() {
		return retry.Transient(err)
	}
	return err
}
