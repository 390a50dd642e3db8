package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafka "github.com/segmentio/kafka-go"

	"github.com/rickgao/auction-watch/internal/config"
	"github.com/rickgao/auction-watch/internal/model"
)

// messageWriter is the part of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON to one topic. Messages are keyed by
// account so one account's events stay in order within a partition.
type Kafka struct {
	*batcher
	writer messageWriter
}

// NewKafka creates a Kafka sink from config.
func NewKafka(cfg config.KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: cfg.WriteTimeout,
	}
	return newKafka(w, BatchConfig{BufferSize: cfg.BufferSize}, logger), nil
}

func newKafka(w messageWriter, cfg BatchConfig, logger *slog.Logger) *Kafka {
	k := &Kafka{writer: w}
	k.batcher = newBatcher("kafka", cfg, k.write, logger)
	return k
}

// Stop drains the buffer and closes the writer.
func (k *Kafka) Stop(ctx context.Context) error {
	stopErr := k.batcher.Stop(ctx)
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return stopErr
}

func (k *Kafka) write(ctx context.Context, batch []model.Event) (int, error) {
	msgs := make([]kafka.Message, 0, len(batch))
	for _, e := range batch {
		msg, err := kafkaMessage(e)
		if err != nil {
			k.logger.Warn("failed to encode event", "err", err, "event_id", e.ID)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write messages: %w", err)
	}
	return len(msgs), nil
}

func kafkaMessage(e model.Event) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(e.Account),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(e.Kind)},
			{Key: "event_id", Value: []byte(e.ID.String())},
		},
	}, nil
}
