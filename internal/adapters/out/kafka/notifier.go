// Package kafka sends customer and driver notifications to a Kafka topic,
// keyed by recipient so that one recipient's messages stay ordered.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
)

const DefaultTopic = "dispatch.notifications"

var ErrProducerNotInitialized = errors.New("kafka producer is not initialized")

// Envelope is the record value written to the topic.
type Envelope struct {
	RecipientID string         `json:"recipientId"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
	SentAt      time.Time      `json:"sentAt"`
}

type Notifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

var _ ports.NotificationSender = (*Notifier)(nil)

// NewProducerConfig returns the producer settings the notifier relies on.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second
	return cfg
}

// NewNotifier connects a synchronous producer to a comma-separated broker list.
func NewNotifier(brokers, topic string, logger *slog.Logger) (*Notifier, error) {
	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	producer, err := sarama.NewSyncProducer(brokerList, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	n := NewNotifierWithProducer(producer, topic, logger)
	n.logger.Info("kafka producer created", "brokers", brokerList, "topic", n.topic)
	return n, nil
}

func NewNotifierWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Notifier{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka_notifier"),
	}
}

func (n *Notifier) SendNotification(ctx context.Context, recipientID string, notification ports.Notification) error {
	if n.producer == nil {
		return ErrProducerNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(Envelope{
		RecipientID: recipientID,
		Type:        notification.Type,
		Title:       notification.Title,
		Message:     notification.Message,
		Data:        notification.Data,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	partition, offset, err := n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(recipientID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send notification to topic %s: %w", n.topic, err)
	}

	n.logger.DebugContext(ctx, "notification sent",
		"recipient_id", recipientID, "type", notification.Type,
		"partition", partition, "offset", offset)
	return nil
}

func (n *Notifier) Close() error {
	if n.producer != nil {
		return n.producer.Close()
	}
	return nil
}
