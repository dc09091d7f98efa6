package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magabrotheeeer/movie-access/internal/rabbitmq"
)

// AMQPPublisher публикует события в topic-exchange RabbitMQ, routing key = тип события.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
	now      func() time.Time
}

// NewAMQPPublisher создаёт публикатор поверх открытого канала.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}
}

// Publish отправляет событие. Канал AMQP не поддерживает конкурентную публикацию,
// поэтому вызовы сериализуются.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = p.now().UTC()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, string(e.Type), e); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
