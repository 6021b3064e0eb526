// Package kafka publishes per-state summaries to a Kafka topic.
// It implements pipeline.Publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/award-map-report/internal/config"
	"github.com/couchcryptid/award-map-report/internal/domain"
)

// Writer produces messages to the summary sink topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes all region summaries in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishSummaries(ctx context.Context, summaries []domain.RegionSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RegionSummary into a Kafka message keyed by region.
func serializeToMessage(summary domain.RegionSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(summary.Region)},
			{Key: "generated_at", Value: []byte(summary.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
