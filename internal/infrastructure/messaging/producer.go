package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is a broker-agnostic record handed to a Publisher.
type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// Publisher delivers messages to the broker.
type Publisher interface {
	Publish(ctx context.Context, msgs ...Message) error
	Close() error
}

// KafkaProducer publishes to a single topic. Messages with the same key land on the same partition.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchSize:              10,
			BatchTimeout:           500 * time.Millisecond,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, msgs ...Message) error {
	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km := kafka.Message{Key: []byte(m.Key), Value: m.Value}
		for k, v := range m.Headers {
			km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		out = append(out, km)
	}
	return p.writer.WriteMessages(ctx, out...)
}

func (p *KafkaProducer) Close() error {
	slog.Info("closing kafka producer", "topic", p.writer.Topic)
	return p.writer.Close()
}
