package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

const (
	EmailName        = "email"
	defaultSMTPHost  = "smtp.gmail.com"
	defaultSMTPPort  = 587
	defaultSMTPLimit = 60 * time.Second
)

// SMTPConfig holds configuration for the SMTP email channel.
type SMTPConfig struct {
	Host     string // Default: smtp.gmail.com
	Port     int    // Default: 587 (STARTTLS)
	From     string // Sender address
	Username string // Defaults to From
	Password string // App password; spaces are stripped
	Timeout  time.Duration
}

// SMTPProvider implements Provider over SMTP with STARTTLS.
// Designed for Gmail app passwords but works with any STARTTLS server.
type SMTPProvider struct {
	host     string
	port     int
	from     string
	username string
	password string
	timeout  time.Duration
}

// NewSMTPProvider creates an SMTP email provider.
func NewSMTPProvider(cfg SMTPConfig) (*SMTPProvider, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, &DeliveryError{Provider: EmailName, Message: "sender address is required"}
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return nil, &DeliveryError{Provider: EmailName, Message: "password is required"}
	}
	if cfg.Host == "" {
		cfg.Host = defaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.Username == "" {
		cfg.Username = cfg.From
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSMTPLimit
	}

	return &SMTPProvider{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.Username,
		password: strings.ReplaceAll(cfg.Password, " ", ""),
		timeout:  cfg.Timeout,
	}, nil
}

// Name returns the channel identifier.
func (p *SMTPProvider) Name() string {
	return EmailName
}

// Deliver sends the message via SMTP. One connection, one send attempt.
func (p *SMTPProvider) Deliver(ctx context.Context, msg *Message) (*Result, error) {
	if msg == nil || len(msg.Recipients) == 0 {
		return nil, &DeliveryError{Provider: EmailName, Message: "at least one recipient is required"}
	}

	messageID := fmt.Sprintf("%s@promptrun", uuid.NewString())

	m := mail.NewMsg()
	if err := m.From(p.from); err != nil {
		return nil, &DeliveryError{Provider: EmailName, Message: "invalid sender address " + p.from, Err: err}
	}
	if err := m.To(msg.Recipients...); err != nil {
		return nil, &DeliveryError{Provider: EmailName, Message: "invalid recipient address", Err: err}
	}
	m.Subject(msg.Subject)
	m.SetMessageIDWithValue(messageID)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	client, err := mail.NewClient(p.host,
		mail.WithPort(p.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.username),
		mail.WithPassword(p.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(p.timeout),
	)
	if err != nil {
		return nil, &DeliveryError{Provider: EmailName, Message: "failed to create SMTP client", Err: err}
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return nil, &DeliveryError{
			Provider: EmailName,
			Message:  fmt.Sprintf("send via %s:%d failed: %v", p.host, p.port, err),
			Err:      err,
		}
	}

	return &Result{
		MessageID:  messageID,
		Recipients: len(msg.Recipients),
	}, nil
}

var _ Provider = (*SMTPProvider)(nil)
