// Package notify delivers failure alerts from sync runs to operators.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Notifier delivers one alert.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Config holds SMTP delivery settings. The server must accept implicit TLS.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &ValidationError{Field: "host", Message: "required"}
	}
	if c.From == "" {
		return &ValidationError{Field: "from", Message: "required"}
	}
	if len(c.To) == 0 {
		return &ValidationError{Field: "to", Message: "required"}
	}
	return nil
}

// Email sends alerts over SMTP with implicit TLS.
type Email struct {
	config *Config
}

// NewEmail creates an SMTP notifier.
func NewEmail(config *Config) (*Email, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Port == 0 {
		config.Port = 465
	}
	return &Email{config: config}, nil
}

// Notify implements Notifier.
func (e *Email) Notify(ctx context.Context, subject, body string) error {
	addr := net.JoinHostPort(e.config.Host, strconv.Itoa(e.config.Port))

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: e.config.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, e.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if e.config.Username != "" {
		auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(e.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range e.config.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(e.config.From, e.config.To, subject, body)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return client.Quit()
}

// buildMessage assembles the RFC 5322 message bytes.
func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Log writes alerts to the process log. Used when no SMTP server is
// configured.
type Log struct{}

// Notify implements Notifier.
func (Log) Notify(ctx context.Context, subject, body string) error {
	log.Printf("notify: %s\n%s", subject, body)
	return nil
}
