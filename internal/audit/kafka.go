package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaStore appends events to a Kafka topic so off-device consumers can
// index a user's activity history. Listing is not served from Kafka.
type KafkaStore struct {
	client *kgo.Client
}

func NewKafkaStore(brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaStore{client: client}, nil
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	record := &kgo.Record{Key: []byte(event.Subject), Value: value}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListBySubject is unsupported on the Kafka store; wire a queryable store
// next to it when history reads are needed.
func (s *KafkaStore) ListBySubject(context.Context, string) ([]Event, error) {
	return nil, fmt.Errorf("audit: kafka store does not support listing")
}

func (s *KafkaStore) Close() {
	s.client.Close()
}
