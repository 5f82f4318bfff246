package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"opspilot/types"
)

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// Producer publishes saved leads to a Kafka topic so downstream consumers
// (CRM sync, alerting) can react without polling the sheet. Publishing is
// best-effort: failures are logged and never propagate into the run.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a new Kafka producer
func NewProducer(config ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	log.Printf("Kafka producer started (topic: %s)", config.Topic)
	return &Producer{producer: producer, topic: config.Topic}, nil
}

// LeadSaved publishes the persisted lead as a JSON message keyed by lead ID.
func (p *Producer) LeadSaved(ctx context.Context, lead *types.Lead) {
	payload, err := json.Marshal(lead)
	if err != nil {
		log.Printf("Warning: failed to marshal lead %s for Kafka: %v", lead.ID, err)
		return
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(lead.ID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.Printf("Warning: failed to publish lead %s to Kafka: %v", lead.ID, err)
	}
}

// Close gracefully shuts down the producer
func (p *Producer) Close() error {
	log.Println("Closing Kafka producer...")
	return p.producer.Close()
}
