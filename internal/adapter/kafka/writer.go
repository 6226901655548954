// Package kafka adapts the export pipeline's loader stage to a Kafka sink.
package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/plate-kinematics-etl/internal/config"
	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
)

// Writer produces convergence rows to a Kafka topic.
// It implements pipeline.Loader.
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

// LoadBatch publishes all rows of one time step in a single WriteMessages
// call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, rows []domain.OutputRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i, row := range rows {
		msgs[i] = mapRowToMessage(row)
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// mapRowToMessage converts an output row into a Kafka message. Header order
// follows map iteration and is not significant to consumers.
func mapRowToMessage(row domain.OutputRow) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(row.Headers))
	for k, v := range row.Headers {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return kafkago.Message{
		Key:     row.Key,
		Value:   row.Value,
		Headers: headers,
	}
}
