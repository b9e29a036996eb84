package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"court-booking/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

// Publisher sends booking events to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	p := &Publisher{conn: conn, exchange: exchange}
	if _, err := p.channel(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err, "open rabbitmq channel")
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errs.Wrap(err, "declare exchange "+p.exchange)
	}
	p.ch = ch
	return ch, nil
}

// Publish uses messageID for consumer-side deduplication; the relay passes the job id.
func (p *Publisher) Publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		MessageId:    messageID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return errs.Wrap(err, "publish "+routingKey)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			slog.Warn("failed to close rabbitmq channel", "error", err.Error())
		}
	}
	return p.conn.Close()
}
