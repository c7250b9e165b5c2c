package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bookit/internal/shared/config"
	"bookit/pkg/logger"
)

// Service is the outbound notification facade. Emails are queued through
// Kafka when the pipeline is enabled, delivered directly otherwise. Either
// way callers treat delivery as fire-and-forget.
type Service interface {
	BookingConfirmed(ctx context.Context, userEmail, venueName string, seatIDs []int, date, startTime string, hours float64) error
	OwnerBookingAdded(ctx context.Context, ownerEmail, venueName string, seatID int, date, startTime string, hours float64) error
	HostRequestStatusChanged(ctx context.Context, ownerEmail, venueName, status string) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type service struct {
	cfg          config.KafkaConfig
	producer     Producer
	consumer     Consumer
	emailService EmailService
	log          *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewService builds the pipeline from configuration. Without SMTP settings
// the mock email service keeps the pipeline functional in development.
func NewService(cfg *config.Config) (Service, error) {
	var emailService EmailService
	if cfg.Email.SMTPHost != "" {
		smtp, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			return nil, err
		}
		emailService = smtp
	} else {
		emailService = NewMockEmailService()
	}

	s := &service{
		cfg:          cfg.Kafka,
		emailService: emailService,
		log:          logger.GetDefault(),
	}

	if cfg.Kafka.Enabled {
		producerConfig := DefaultProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.Topic = cfg.Kafka.NotificationTopic

		producer, err := NewKafkaProducer(producerConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}

		consumerConfig := DefaultConsumerConfig()
		consumerConfig.Brokers = cfg.Kafka.Brokers
		consumerConfig.Topic = cfg.Kafka.NotificationTopic
		consumerConfig.GroupID = cfg.Kafka.ConsumerGroup

		consumer, err := NewKafkaConsumer(consumerConfig, emailService)
		if err != nil {
			producer.Close()
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}

		s.producer = producer
		s.consumer = consumer
	}

	return s, nil
}

func (s *service) BookingConfirmed(ctx context.Context, userEmail, venueName string, seatIDs []int, date, startTime string, hours float64) error {
	notification := NewEmailNotification(
		NotificationTypeBookingConfirmed,
		userEmail,
		fmt.Sprintf("Booking confirmed at %s", venueName),
		map[string]interface{}{
			"venue_name": venueName,
			"seat_ids":   seatIDs,
			"date":       date,
			"start_time": startTime,
			"hours":      hours,
		},
	)
	return s.dispatch(ctx, notification)
}

func (s *service) OwnerBookingAdded(ctx context.Context, ownerEmail, venueName string, seatID int, date, startTime string, hours float64) error {
	notification := NewEmailNotification(
		NotificationTypeOwnerBookingAdded,
		ownerEmail,
		fmt.Sprintf("Seat held at %s", venueName),
		map[string]interface{}{
			"venue_name": venueName,
			"seat_id":    seatID,
			"date":       date,
			"start_time": startTime,
			"hours":      hours,
		},
	)
	return s.dispatch(ctx, notification)
}

func (s *service) HostRequestStatusChanged(ctx context.Context, ownerEmail, venueName, status string) error {
	notification := NewEmailNotification(
		NotificationTypeHostRequestStatus,
		ownerEmail,
		fmt.Sprintf("Your listing %q is now %s", venueName, status),
		map[string]interface{}{
			"venue_name": venueName,
			"status":     status,
		},
	)
	return s.dispatch(ctx, notification)
}

func (s *service) dispatch(ctx context.Context, notification *EmailNotification) error {
	if s.producer != nil {
		return s.producer.Publish(ctx, notification)
	}
	// No broker configured: deliver inline.
	return s.emailService.Send(ctx, notification)
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.consumer == nil {
		return nil
	}
	if err := s.consumer.Start(ctx); err != nil {
		return err
	}
	s.running = true
	s.log.Info("notification workers started",
		slog.String("topic", s.cfg.NotificationTopic),
		slog.String("group", s.cfg.ConsumerGroup),
	)
	return nil
}

func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumer != nil && s.running {
		if err := s.consumer.Stop(); err != nil {
			return err
		}
		s.running = false
	}
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	if s.producer == nil {
		return nil
	}
	return s.producer.HealthCheck(ctx)
}
