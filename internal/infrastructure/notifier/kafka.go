package notifier

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes alerts as JSON events keyed by deal URL for downstream
// consumers.
type Kafka struct {
	writer MessageWriter
	now    func() time.Time
}

type dealEvent struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
}

type opportunityEvent struct {
	Deal     dealEvent `json:"deal"`
	Estimate float64   `json:"estimate"`
	Discount float64   `json:"discount"`
	FoundAt  time.Time `json:"found_at"`
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{
		writer: writer,
		now:    time.Now,
	}
}

func (*Kafka) Channel() string {
	return "kafka"
}

func (k *Kafka) Send(ctx context.Context, msg Message) error {
	o := msg.Opportunity

	value, err := json.Marshal(opportunityEvent{
		Deal: dealEvent{
			Description: o.Deal.Description,
			Price:       o.Deal.Price,
			URL:         o.Deal.URL,
		},
		Estimate: o.Estimate,
		Discount: o.Discount,
		FoundAt:  k.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err = k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(o.Deal.URL), Value: value}); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
