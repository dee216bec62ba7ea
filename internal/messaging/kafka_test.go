package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/pkg/models"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu        sync.Mutex
	fetchErrs []error
	fetches   int
	queue     []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	r.fetches++
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testLog() models.RecommendationLog {
	return models.RecommendationLog{
		ID:         uuid.New(),
		UserID:     "user-1",
		OutfitID:   "outfit-1-0",
		GarmentIDs: []string{"top-1", "bottom-1", "shoes-1"},
		Action:     models.ActionWorn,
		Timestamp:  time.Now(),
	}
}

func encodedEvent(t *testing.T, log models.RecommendationLog) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(FeedbackEvent{EventID: uuid.New(), Log: log, Timestamp: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Key: []byte(log.UserID), Value: payload}
}

func testBus(reader *fakeReader, dlq *fakeWriter) *FeedbackBus {
	bus := newBus(&config.Config{}, testLogger())
	bus.consumer = reader
	bus.dlqWriter = dlq
	bus.baseDelay = time.Millisecond
	return bus
}

func TestNewBus_Defaults(t *testing.T) {
	bus := newBus(&config.Config{}, testLogger())

	assert.Equal(t, DefaultFeedbackTopic, bus.topic)
	assert.Equal(t, DefaultFeedbackDLQTopic, bus.dlqTopic)
	assert.Equal(t, defaultMaxRetries, bus.maxRetries)
}

func TestPublishFeedback(t *testing.T) {
	writer := &fakeWriter{}
	bus := newBus(&config.Config{}, testLogger())
	bus.producer = writer

	log := testLog()
	require.NoError(t, bus.PublishFeedback(context.Background(), log))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("user-1"), msg.Key)

	var event FeedbackEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, log.OutfitID, event.Log.OutfitID)
	assert.Equal(t, log.GarmentIDs, event.Log.GarmentIDs)
	assert.Equal(t, models.ActionWorn, event.Log.Action)
}

func TestPublishFeedback_WriteError(t *testing.T) {
	bus := newBus(&config.Config{}, testLogger())
	bus.producer = &fakeWriter{err: errors.New("broker down")}

	err := bus.PublishFeedback(context.Background(), testLog())
	assert.ErrorContains(t, err, "broker down")
}

func TestPublishFeedback_NoProducer(t *testing.T) {
	bus := newBus(&config.Config{}, testLogger())
	assert.Error(t, bus.PublishFeedback(context.Background(), testLog()))
}

func TestConsume_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{encodedEvent(t, testLog())}}
	dlq := &fakeWriter{}
	bus := testBus(reader, dlq)

	ctx, cancel := context.WithCancel(context.Background())
	var handled []FeedbackEvent
	err := bus.Consume(ctx, func(_ context.Context, e FeedbackEvent) error {
		handled = append(handled, e)
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, handled, 1)
	assert.Equal(t, "outfit-1-0", handled[0].Log.OutfitID)
	assert.Len(t, reader.committed, 1)
	assert.Empty(t, dlq.messages)
}

func TestConsume_BacksOffAfterFetchErrors(t *testing.T) {
	reader := &fakeReader{
		fetchErrs: []error{errors.New("broker unavailable"), errors.New("broker unavailable")},
		queue:     []kafka.Message{encodedEvent(t, testLog())},
	}
	bus := testBus(reader, &fakeWriter{})
	bus.baseDelay = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	handled := 0
	err := bus.Consume(ctx, func(_ context.Context, e FeedbackEvent) error {
		handled++
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, handled)
	// Two failures, the event, then the fetch that observes the cancellation.
	assert.Equal(t, 4, reader.fetches)
	// 20ms after the first failure, 40ms after the second.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestConsume_FetchBackoffStopsOnCancel(t *testing.T) {
	reader := &fakeReader{fetchErrs: []error{errors.New("broker unavailable")}}
	bus := testBus(reader, &fakeWriter{})
	bus.baseDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bus.Consume(ctx, func(context.Context, FeedbackEvent) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, reader.fetches)
}

func TestConsume_ClosedReaderStops(t *testing.T) {
	reader := &fakeReader{fetchErrs: []error{io.EOF}}
	bus := testBus(reader, &fakeWriter{})

	err := bus.Consume(context.Background(), func(context.Context, FeedbackEvent) error { return nil })
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 1, reader.fetches)
}

func TestNextFetchDelay(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, nextFetchDelay(0, base))
	assert.Equal(t, 200*time.Millisecond, nextFetchDelay(base, base))
	assert.Equal(t, maxFetchBackoff, nextFetchDelay(20*time.Second, base))
	assert.Equal(t, maxFetchBackoff, nextFetchDelay(maxFetchBackoff, base))
}

func TestConsume_RetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{encodedEvent(t, testLog())}}
	dlq := &fakeWriter{}
	bus := testBus(reader, dlq)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	attempts := 0
	go func() {
		for {
			reader.mu.Lock()
			done := len(reader.committed) == 1
			reader.mu.Unlock()
			if done {
				cancel()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	err := bus.Consume(ctx, func(_ context.Context, e FeedbackEvent) error {
		attempts++
		return errors.New("graph unavailable")
	})

	assert.Error(t, err)
	assert.Equal(t, defaultMaxRetries+1, attempts)
	require.Len(t, dlq.messages, 1)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(dlq.messages[0].Value, &body))
	assert.Contains(t, body["error"], "graph unavailable")
	assert.NotNil(t, body["original_message"])
}

func TestConsume_MalformedPayloadGoesToDLQ(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Key: []byte("k"), Value: []byte("not json")}}}
	dlq := &fakeWriter{}
	bus := testBus(reader, dlq)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go func() {
		for {
			reader.mu.Lock()
			done := len(reader.committed) == 1
			reader.mu.Unlock()
			if done {
				cancel()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	called := false
	_ = bus.Consume(ctx, func(context.Context, FeedbackEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	require.Len(t, dlq.messages, 1)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(dlq.messages[0].Value, &body))
	assert.Equal(t, "not json", body["original_message"])
}

func TestStats_WithoutKafkaReader(t *testing.T) {
	bus := testBus(&fakeReader{}, &fakeWriter{})
	assert.Empty(t, bus.Stats())
}
