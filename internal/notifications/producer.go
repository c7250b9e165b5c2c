package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"bookit/pkg/logger"
)

// Producer publishes email notifications to the notification topic.
type Producer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

type ProducerConfig struct {
	Brokers  []string
	Topic    string
	RetryMax int
	Timeout  time.Duration
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:  []string{"localhost:9092"},
		Topic:    "bookit-notifications",
		RetryMax: 3,
		Timeout:  10 * time.Second,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	// Hash on recipient so one inbox maps to one partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.Status = NotificationStatusFailed
		errorStr := err.Error()
		notification.LastError = &errorStr
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.Debug("notification published",
		slog.String("topic", p.config.Topic),
		slog.Int64("partition", int64(partition)),
		slog.Int64("offset", offset),
		slog.String("type", string(notification.Type)),
	)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	client, err := sarama.NewClient(p.config.Brokers, sarama.NewConfig())
	if err != nil {
		return fmt.Errorf("kafka unreachable: %w", err)
	}
	defer client.Close()

	brokers := client.Brokers()
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers available")
	}
	return nil
}
