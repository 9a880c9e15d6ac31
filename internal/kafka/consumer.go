package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/R0llcre/promotions/internal/logging"
	"github.com/R0llcre/promotions/internal/metrics"
)

// Consumer tails the promotion event topic and writes an audit line for
// every lifecycle event.
type Consumer struct {
	consumer sarama.Consumer
	topic    string
}

func NewConsumer(brokers []string, topic string) (*Consumer, error) {
	config := sarama.NewConfig()
	consumer, err := sarama.NewConsumer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &Consumer{consumer: consumer, topic: topic}, nil
}

func (c *Consumer) Start() error {
	partitionConsumer, err := c.consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		return err
	}

	for message := range partitionConsumer.Messages() {
		var event promotionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logging.Logger.Error("Failed to unmarshal event", zap.Error(err))
			continue
		}
		metrics.KafkaConsumedMessages.Inc()

		fields := []zap.Field{zap.String("type", event.Type)}
		if event.Promotion != nil {
			fields = append(fields,
				zap.Int("id", event.Promotion.ID),
				zap.String("name", event.Promotion.Name),
				zap.String("end_date", event.Promotion.EndDate.String()))
		}
		logging.Logger.Info("Promotion event", fields...)
	}

	return nil
}
