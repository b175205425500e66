package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/txengine/internal/domain"
)

// KafkaSink publishes audit events as JSON messages, keyed by client id so
// one client's events land on one partition in order. Publishing is
// best-effort with a short bounded retry; a broker outage never blocks
// record processing beyond that.
type KafkaSink struct {
	writer *kafka.Writer
	logger zerolog.Logger

	publishTimeout time.Duration
}

// NewKafkaSink creates a sink writing to topic on the given brokers.
func NewKafkaSink(brokers []string, topic string, logger zerolog.Logger) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		logger:         logger,
		publishTimeout: 10 * time.Second,
	}
}

// Record publishes the event, retrying transient failures with exponential
// backoff. Events that still fail are logged and dropped.
func (s *KafkaSink) Record(e domain.AuditEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		s.logger.Warn().Err(err).Str("event", e.ID).Msg("failed to marshal audit event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.ClientID), 10)),
		Value: data,
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second

	err = backoff.Retry(func() error {
		return s.writer.WriteMessages(ctx, msg)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		s.logger.Warn().Err(err).Str("event", e.ID).Msg("dropping audit event after retries")
	}
}

// Close closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
