package kafka

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/R0llcre/promotions/internal/models"
	"github.com/R0llcre/promotions/internal/retry"
)

// promotionEvent is the wire form of a lifecycle event.
type promotionEvent struct {
	Type      string            `json:"type"`
	Promotion *models.Promotion `json:"promotion"`
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// PublishPromotionEvent sends one lifecycle event, keyed by promotion id
// so events for the same record stay ordered within a partition.
func (p *Producer) PublishPromotionEvent(eventType string, promotion *models.Promotion) error {
	value, err := json.Marshal(promotionEvent{Type: eventType, Promotion: promotion})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(promotion.ID)),
		Value: sarama.ByteEncoder(value),
	}

	return retry.Do(3, time.Second, func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
