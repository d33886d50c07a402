package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	dialTimeout = 10 * time.Second
	sendTimeout = 30 * time.Second
)

// Mailer is the outbound notification sink
type Mailer interface {
	SendNotification(ctx context.Context, recipients []string, subject, message string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPMailer implements Mailer over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Configured reports whether credentials are present
func (s *SMTPMailer) Configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendNotification sends a hostel notice to every recipient in one message
// (recipients are placed in Bcc so students do not see each other).
func (s *SMTPMailer) SendNotification(ctx context.Context, recipients []string, subject, message string) error {
	if len(recipients) == 0 {
		return nil
	}

	if !s.Configured() {
		s.logger.Warn().
			Strs("recipients", recipients).
			Str("subject", subject).
			Msg("SMTP credentials not configured - notification email not sent")
		return nil
	}

	paragraphs := strings.Split(html.EscapeString(message), "\n")
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">%s</h2>
				<p>%s</p>
				<p>Hostel Office</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(subject), strings.Join(paragraphs, "<br>"))

	return s.sendHTMLEmail(ctx, recipients, subject, body)
}

// buildMessage assembles the headers and body. Header values are encoded
// so a line break in the subject cannot start a new header.
func buildMessage(fromName, fromEmail, subject, htmlBody string) []byte {
	headers := []string{
		"From: " + (&mail.Address{Name: fromName, Address: fromEmail}).String(),
		"To: " + (&mail.Address{Address: fromEmail}).String(),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody)
}

// sendHTMLEmail sends an HTML email. The whole exchange is bounded by ctx,
// or by sendTimeout when ctx has no deadline.
func (s *SMTPMailer) sendHTMLEmail(ctx context.Context, recipients []string, subject, htmlBody string) error {
	message := buildMessage(s.config.FromName, s.config.FromEmail, subject, htmlBody)
	serverAddress := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddress)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(sendTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set SMTP deadline: %w", err)
	}

	tlsConfig := &tls.Config{ServerName: s.config.Host}
	if s.config.UseTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}
	if ok, _ := client.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return client.Quit()
}
