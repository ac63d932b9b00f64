// Package services содержит логику почтовых уведомлений о событиях
// подписки, потребляемых из очереди RabbitMQ.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kittycareapp/kittycare-server/internal/lib/sl"
	smtplib "github.com/kittycareapp/kittycare-server/internal/lib/smtp"
	"github.com/kittycareapp/kittycare-server/internal/models"
)

// Transport описывает контракт SMTP транспорта.
type Transport interface {
	Connect() (smtplib.Client, error)
	FromAddress() string
}

type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleSubscriptionEvent обрабатывает событие подписки из очереди
// и отправляет пользователю письмо.
func (s *SenderService) HandleSubscriptionEvent(body []byte) error {
	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	switch event.Type {
	case models.EventSubscriptionConfirmed:
		return s.sendConfirmation(event)
	case models.EventSubscriptionCanceled:
		return s.sendCancellation(event)
	default:
		s.log.Warn("skipping unknown event type", slog.String("type", event.Type))
		return nil
	}
}

func (s *SenderService) sendConfirmation(event models.SubscriptionEvent) error {
	subject := "Your KittyCare subscription is confirmed"
	bodyText := fmt.Sprintf(`Hello, %s!

Thank you for subscribing to KittyCare.

Plan: %s
Billing period: %s
Amount: %s
Active from %s to %s.

Your feline friend is in good paws.`,
		event.Name, event.Plan, event.BillingPeriod, billingAmount(event.BillingPeriod),
		event.StartDate, event.EndDate)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *SenderService) sendCancellation(event models.SubscriptionEvent) error {
	subject := "Your KittyCare subscription has been canceled"
	bodyText := fmt.Sprintf(`Hello, %s!

Your %s subscription has been canceled and will not renew.

You can resubscribe at any time from your account page.`,
		event.Name, event.Plan)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func billingAmount(billingPeriod string) string {
	if billingPeriod == models.BillingYearly {
		return "$299.99 / year"
	}
	return "$49.99 / month"
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.FromAddress(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.FromAddress()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.FromAddress()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
