package kafka

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// LedgerPublisher публикует события каталога и журнала продаж в Kafka topic.
type LedgerPublisher struct {
	producer *Producer
	topic    string
}

// NewLedgerPublisher создаёт паблишер. Пустой topic заменяется TopicLedgerEvents.
func NewLedgerPublisher(producer *Producer, topic string) *LedgerPublisher {
	if topic == "" {
		topic = TopicLedgerEvents
	}
	return &LedgerPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *LedgerPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka ledger publisher is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := NewLedgerMessage(event)
	return p.producer.PublishEvent(p.topic, msg.Key(), msg, map[string]string{
		HeaderEventType: string(event.Type),
	})
}

// Topic возвращает topic назначения.
func (p *LedgerPublisher) Topic() string {
	return p.topic
}

var _ domain.EventPublisher = (*LedgerPublisher)(nil)
