package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/ikigai-ua/formrelay/internal/config"
)

// SMTPProvider delivers notifications via SMTP using the go-mail library.
// Every Send dials its own connection, so one provider can serve concurrent requests.
type SMTPProvider struct {
	config config.MailConfig
}

// NewSMTPProvider creates a new SMTPProvider with the given configuration.
func NewSMTPProvider(cfg config.MailConfig) *SMTPProvider {
	return &SMTPProvider{config: cfg}
}

// Name returns the provider identifier.
func (p *SMTPProvider) Name() string { return "smtp" }

// Send delivers msg to the configured recipient. There is no retry.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	m, err := p.buildMsg(msg)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(p.config.Host, p.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail via %s:%d: %w", p.config.Host, p.config.SMTPPort(), err)
	}
	return nil
}

func (p *SMTPProvider) buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(p.config.FromName, p.config.User); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(p.config.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", p.config.Recipient, err)
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()

	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	// Plain-text fallback for clients that don't render HTML.
	if msg.TextBody != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.TextBody)
	}
	return m, nil
}

// clientOptions maps the mail config to go-mail options: port 465 means
// implicit TLS, anything else upgrades with STARTTLS when the server offers it.
func (p *SMTPProvider) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(p.config.SMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.config.User),
		mail.WithPassword(p.config.Password),
	}
	if p.config.Secure() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return opts
}
