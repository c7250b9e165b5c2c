package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"bookit/pkg/logger"
)

// EmailService delivers a single notification over SMTP.
type EmailService interface {
	Send(ctx context.Context, notification *EmailNotification) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type smtpEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig) (EmailService, error) {
	if config.Host == "" || config.Username == "" {
		return nil, fmt.Errorf("SMTP configuration is incomplete: host and username are required")
	}
	if config.FromEmail == "" {
		config.FromEmail = config.Username
	}
	return &smtpEmailService{
		config: config,
		log:    logger.GetDefault(),
	}, nil
}

func (s *smtpEmailService) Send(ctx context.Context, notification *EmailNotification) error {
	body, err := renderBody(notification)
	if err != nil {
		return err
	}

	message := s.buildMessage(notification.RecipientEmail, notification.Subject, body)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.Port == 465 {
		return s.sendWithTLS(addr, auth, notification.RecipientEmail, message)
	}
	return s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message)
}

func (s *smtpEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.config.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}
	return client.Quit()
}

func (s *smtpEmailService) sendWithTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.Host}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect with TLS: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}
	return client.Quit()
}

func (s *smtpEmailService) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func renderBody(n *EmailNotification) (string, error) {
	data := n.TemplateData
	switch n.Type {
	case NotificationTypeBookingConfirmed:
		return fmt.Sprintf(
			"Your booking at %v is confirmed.\n\nDate: %v\nStart: %v\nDuration: %v hour(s)\nSeats: %v\n\nSee you there!\nThe BookIt Team",
			data["venue_name"], data["date"], data["start_time"], data["hours"], data["seat_ids"],
		), nil
	case NotificationTypeOwnerBookingAdded:
		return fmt.Sprintf(
			"You placed a hold on seat %v at %v.\n\nDate: %v\nStart: %v\nDuration: %v hour(s)\n\nThe BookIt Team",
			data["seat_id"], data["venue_name"], data["date"], data["start_time"], data["hours"],
		), nil
	case NotificationTypeHostRequestStatus:
		return fmt.Sprintf(
			"Your venue listing %q has been updated.\n\nNew status: %v\n\nThe BookIt Team",
			data["venue_name"], data["status"],
		), nil
	default:
		return "", fmt.Errorf("unknown notification type: %s", n.Type)
	}
}

// mockEmailService logs instead of sending. Used when SMTP is not configured
// so local environments still exercise the full pipeline.
type mockEmailService struct {
	log *logger.Logger
}

func NewMockEmailService() EmailService {
	return &mockEmailService{log: logger.GetDefault()}
}

func (s *mockEmailService) Send(ctx context.Context, notification *EmailNotification) error {
	s.log.Info("mock email delivered",
		slog.String("to", notification.RecipientEmail),
		slog.String("subject", notification.Subject),
		slog.String("type", string(notification.Type)),
	)
	return nil
}
