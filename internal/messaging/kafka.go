package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/pkg/models"
)

const (
	DefaultFeedbackTopic    = "outfit-feedback"
	DefaultFeedbackDLQTopic = "outfit-feedback-dlq"
	DefaultConsumerGroup    = "outfit-feedback-workers"

	defaultMaxRetries = 3
	maxFetchBackoff   = 30 * time.Second
)

// FeedbackEvent is the payload published for every recorded feedback action.
type FeedbackEvent struct {
	EventID    uuid.UUID                `json:"event_id"`
	Log        models.RecommendationLog `json:"log"`
	Timestamp  time.Time                `json:"timestamp"`
	RetryCount int                      `json:"retry_count"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// FeedbackBus publishes feedback events and drives the worker-side consumer.
type FeedbackBus struct {
	producer   messageWriter
	consumer   messageReader
	dlqWriter  messageWriter
	topic      string
	dlqTopic   string
	maxRetries int
	baseDelay  time.Duration
	logger     *logrus.Logger
}

// NewFeedbackProducer returns a bus that can only publish. The API server uses it.
func NewFeedbackProducer(cfg *config.Config, logger *logrus.Logger) *FeedbackBus {
	bus := newBus(cfg, logger)
	bus.producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        bus.topic,
		Balancer:     &kafka.Hash{}, // keyed by user so one user's events stay ordered
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return bus
}

// NewFeedbackConsumer returns a bus that consumes the feedback topic and dead-letters failures.
func NewFeedbackConsumer(cfg *config.Config, logger *logrus.Logger) *FeedbackBus {
	bus := newBus(cfg, logger)
	group := cfg.Kafka.ConsumerGroup
	if group == "" {
		group = DefaultConsumerGroup
	}
	bus.consumer = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          bus.topic,
		GroupID:        group,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
	bus.dlqWriter = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        bus.dlqTopic,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return bus
}

func newBus(cfg *config.Config, logger *logrus.Logger) *FeedbackBus {
	bus := &FeedbackBus{
		topic:      cfg.Kafka.Topics.Feedback,
		dlqTopic:   cfg.Kafka.Topics.FeedbackDLQ,
		maxRetries: cfg.Kafka.MaxRetries,
		baseDelay:  time.Second,
		logger:     logger,
	}
	if bus.topic == "" {
		bus.topic = DefaultFeedbackTopic
	}
	if bus.dlqTopic == "" {
		bus.dlqTopic = DefaultFeedbackDLQTopic
	}
	if bus.maxRetries <= 0 {
		bus.maxRetries = defaultMaxRetries
	}
	return bus
}

func (fb *FeedbackBus) PublishFeedback(ctx context.Context, log models.RecommendationLog) error {
	if fb.producer == nil {
		return errors.New("feedback bus has no producer")
	}

	event := FeedbackEvent{
		EventID:   uuid.New(),
		Log:       log,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(log.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "action", Value: []byte(log.Action)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := fb.producer.WriteMessages(writeCtx, msg); err != nil {
		fb.logger.WithError(err).WithField("outfit_id", log.OutfitID).Error("Failed to publish feedback event")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	fb.logger.WithFields(logrus.Fields{
		"event_id":  event.EventID,
		"outfit_id": log.OutfitID,
		"action":    log.Action,
		"topic":     fb.topic,
	}).Debug("Feedback event published")

	return nil
}

// Consume reads events until ctx is cancelled. Each message is committed once it was either
// handled or dead-lettered.
func (fb *FeedbackBus) Consume(ctx context.Context, handler func(context.Context, FeedbackEvent) error) error {
	if fb.consumer == nil {
		return errors.New("feedback bus has no consumer")
	}

	var fetchDelay time.Duration
	for {
		msg, err := fb.consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The reader only returns io.EOF once it has been closed.
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("feedback consumer closed: %w", err)
			}
			fetchDelay = nextFetchDelay(fetchDelay, fb.baseDelay)
			fb.logger.WithError(err).WithField("delay", fetchDelay).Error("Failed to read message from Kafka")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchDelay):
			}
			continue
		}
		fetchDelay = 0

		var event FeedbackEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			fb.logger.WithError(err).Error("Failed to unmarshal feedback event")
			if dlqErr := fb.sendToDLQ(ctx, msg.Value, msg.Key, err); dlqErr != nil {
				fb.logger.WithError(dlqErr).Error("Failed to send message to DLQ")
			}
			fb.commit(ctx, msg)
			continue
		}

		if err := fb.processWithRetry(ctx, event, handler); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fb.logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to process feedback event after retries")
			if dlqErr := fb.sendEventToDLQ(ctx, event, err); dlqErr != nil {
				fb.logger.WithError(dlqErr).Error("Failed to send message to DLQ")
			}
		}
		fb.commit(ctx, msg)
	}
}

// nextFetchDelay doubles the previous fetch backoff, starting at base and capped at maxFetchBackoff.
func nextFetchDelay(prev, base time.Duration) time.Duration {
	if prev <= 0 {
		return base
	}
	next := prev * 2
	if next > maxFetchBackoff {
		return maxFetchBackoff
	}
	return next
}

func (fb *FeedbackBus) commit(ctx context.Context, msg kafka.Message) {
	if err := fb.consumer.CommitMessages(ctx, msg); err != nil {
		fb.logger.WithError(err).WithField("offset", msg.Offset).Warn("Failed to commit Kafka offset")
	}
}

func (fb *FeedbackBus) processWithRetry(ctx context.Context, event FeedbackEvent, handler func(context.Context, FeedbackEvent) error) error {
	for attempt := 0; attempt <= fb.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			delay := fb.baseDelay * time.Duration(1<<uint(attempt-1))
			fb.logger.WithFields(logrus.Fields{
				"event_id": event.EventID,
				"attempt":  attempt,
				"delay":    delay,
			}).Info("Retrying feedback event")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		event.RetryCount = attempt
		err := handler(ctx, event)
		if err == nil {
			return nil
		}

		fb.logger.WithError(err).WithFields(logrus.Fields{
			"event_id": event.EventID,
			"attempt":  attempt,
		}).Warn("Feedback event processing failed")

		if attempt == fb.maxRetries {
			return fmt.Errorf("max retries exceeded: %w", err)
		}
	}

	return fmt.Errorf("unexpected retry loop exit")
}

func (fb *FeedbackBus) sendEventToDLQ(ctx context.Context, event FeedbackEvent, cause error) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}
	return fb.sendToDLQ(ctx, payload, []byte(event.EventID.String()), cause)
}

func (fb *FeedbackBus) sendToDLQ(ctx context.Context, original []byte, key []byte, cause error) error {
	if fb.dlqWriter == nil {
		return errors.New("feedback bus has no DLQ writer")
	}

	dlqMessage := map[string]interface{}{
		"original_message": json.RawMessage(original),
		"error":            cause.Error(),
		"dlq_timestamp":    time.Now(),
	}
	if !json.Valid(original) {
		dlqMessage["original_message"] = string(original)
	}

	payload, err := json.Marshal(dlqMessage)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	msg := kafka.Message{
		Key:   key,
		Value: payload,
		Headers: []kafka.Header{
			{Key: "original_topic", Value: []byte(fb.topic)},
			{Key: "error", Value: []byte(cause.Error())},
		},
	}

	if err := fb.dlqWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to DLQ: %w", err)
	}

	fb.logger.WithFields(logrus.Fields{
		"key":   string(key),
		"error": cause.Error(),
	}).Warn("Message sent to DLQ")

	return nil
}

func (fb *FeedbackBus) Close() error {
	var errs []error

	if fb.producer != nil {
		if err := fb.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close producer: %w", err))
		}
	}
	if fb.consumer != nil {
		if err := fb.consumer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close consumer: %w", err))
		}
	}
	if fb.dlqWriter != nil {
		if err := fb.dlqWriter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close DLQ writer: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing feedback bus: %v", errs)
	}

	return nil
}

// Stats reports consumer-side reader statistics when a kafka reader backs the bus.
func (fb *FeedbackBus) Stats() map[string]interface{} {
	reader, ok := fb.consumer.(*kafka.Reader)
	if !ok {
		return map[string]interface{}{}
	}
	stats := reader.Stats()
	return map[string]interface{}{
		"consumer_lag":    stats.Lag,
		"consumer_offset": stats.Offset,
		"messages_read":   stats.Messages,
		"bytes_read":      stats.Bytes,
		"rebalances":      stats.Rebalances,
		"timeouts":        stats.Timeouts,
		"errors":          stats.Errors,
	}
}
