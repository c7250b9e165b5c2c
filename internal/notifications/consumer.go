package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"bookit/pkg/logger"
)

// Consumer drains the notification topic and hands messages to the email
// service.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Workers int
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "bookit-notifications",
		GroupID: "bookit-notification-workers",
		Workers: 2,
	}
}

type kafkaConsumer struct {
	group        sarama.ConsumerGroup
	config       *ConsumerConfig
	emailService EmailService
	log          *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return newConsumerFromGroup(group, config, emailService), nil
}

func newConsumerFromGroup(group sarama.ConsumerGroup, config *ConsumerConfig, emailService EmailService) *kafkaConsumer {
	return &kafkaConsumer{
		group:        group,
		config:       config,
		emailService: emailService,
		log:          logger.GetDefault(),
	}
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	// The errors channel only closes on group.Close, which Stop issues
	// after wg.Wait, so this goroutine must stay out of the WaitGroup.
	go func() {
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", slog.Any("error", err))
		}
	}()

	for i := 0; i < c.config.Workers; i++ {
		workerID := i
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			handler := &consumerGroupHandler{
				emailService: c.emailService,
				log:          c.log,
			}
			for {
				if err := c.group.Consume(runCtx, []string{c.config.Topic}, handler); err != nil {
					c.log.Error("consumer session failed",
						slog.Int("worker", workerID),
						slog.Any("error", err),
					)
				}
				if runCtx.Err() != nil {
					return
				}
			}
		}()
	}
	return nil
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.group.Close()
}

type consumerGroupHandler struct {
	emailService EmailService
	log          *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.processMessage(session.Context(), message); err != nil {
			h.log.Error("notification delivery failed",
				slog.String("topic", message.Topic),
				slog.Int64("offset", message.Offset),
				slog.Any("error", err),
			)
		}
		// Mark regardless: a permanently failing message must not wedge the
		// partition.
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	notification, err := FromJSON(message.Value)
	if err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}
	return h.sendWithRetry(ctx, notification)
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	var lastErr error
	for attempt := 0; attempt <= notification.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = h.emailService.Send(ctx, notification); lastErr == nil {
			now := time.Now()
			notification.Status = NotificationStatusSent
			notification.SentAt = &now
			return nil
		}
		notification.RetryCount = attempt + 1
	}

	notification.Status = NotificationStatusFailed
	errorStr := lastErr.Error()
	notification.LastError = &errorStr
	return lastErr
}
