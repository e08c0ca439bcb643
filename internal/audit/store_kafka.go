package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaStore appends audit events to a Kafka topic, one JSON record per
// event, keyed by fingerprint so records for the same report land in the
// same partition.
type KafkaStore struct {
	client *kgo.Client
	topic  string
}

// NewKafkaStore connects to the brokers and ensures the topic exists.
func NewKafkaStore(ctx context.Context, brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("audit: kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resps, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("audit: create topic %q: %w", topic, err)
	}
	for _, resp := range resps.Sorted() {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("audit: create topic %q: %w", resp.Topic, resp.Err)
		}
	}
	return &KafkaStore{client: client, topic: topic}, nil
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Fingerprint),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("audit: produce: %w", err)
	}
	return nil
}

func (s *KafkaStore) Close() {
	s.client.Close()
}
