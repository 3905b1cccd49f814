package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

var ErrNoRecipient = errors.New("mail: confirmation has no recipient address")

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender sends confirmations through an SMTP relay.
type SMTPSender struct {
	client   *gomail.Client
	from     string
	fromName string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// buildMessage renders c as a plain-text message.
func (s *SMTPSender) buildMessage(c Confirmation) (*gomail.Msg, error) {
	if c.RecipientEmail == "" {
		return nil, ErrNoRecipient
	}
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.AddToFormat(c.RecipientName, c.RecipientEmail); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject(c))
	msg.SetBodyString(gomail.TypeTextPlain, body(c))
	return msg, nil
}

func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, c Confirmation) error {
	msg, err := s.buildMessage(c)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation %s: %w", c.BookingID, err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
