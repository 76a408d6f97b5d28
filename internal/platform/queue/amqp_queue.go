package queue

import (
	"context"
	"fmt"

	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"pinshop/internal/platform/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RKAccountRegistered = "account.registered"

// AMQPQueue publishes to a durable topic exchange and consumes from a
// durable queue bound to RKAccountRegistered.
type AMQPQueue struct {
	conn     *amqp.Connection
	pubCh    *amqp.Channel
	conCh    *amqp.Channel
	exchange string
	queue    string
	log      logging.Logger
}

func NewAMQPQueue(url, exchange, queue string, log logging.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	q := &AMQPQueue{conn: conn, exchange: exchange, log: log.With("exchange", exchange)}

	if q.pubCh, err = conn.Channel(); err != nil {
		q.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}
	if q.conCh, err = conn.Channel(); err != nil {
		q.Close()
		return nil, fmt.Errorf("open consume channel: %w", err)
	}
	if err := q.pubCh.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		q.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	declared, err := q.conCh.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		q.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := q.conCh.QueueBind(declared.Name, RKAccountRegistered, exchange, false, nil); err != nil {
		q.Close()
		return nil, fmt.Errorf("bind %s: %w", RKAccountRegistered, err)
	}
	q.queue = declared.Name
	return q, nil
}

func (q *AMQPQueue) Publish(ctx context.Context, n model.CredentialsNotification) error {
	b, err := encode(n)
	if err != nil {
		return err
	}
	return q.pubCh.PublishWithContext(ctx, q.exchange, RKAccountRegistered, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
}

func (q *AMQPQueue) Consume(ctx context.Context, h Handler) error {
	msgs, err := q.conCh.ConsumeWithContext(ctx, q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	return q.drain(ctx, msgs, h)
}

// drain returns nil only when ctx ends. A delivery channel closed by the
// broker is an error so the caller does not mistake it for a clean stop.
func (q *AMQPQueue) drain(ctx context.Context, msgs <-chan amqp.Delivery, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("amqp deliveries closed: %w", common.ErrServiceUnavailable)
			}
			q.handleDelivery(ctx, d, h)
		}
	}
}

func (q *AMQPQueue) handleDelivery(ctx context.Context, d amqp.Delivery, h Handler) {
	n, err := decode(d.Body)
	if err != nil {
		q.log.Warn(ctx, "dropping malformed notification", "routing_key", d.RoutingKey, "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := h(ctx, n); err != nil {
		q.log.Error(ctx, "notification handler failed", "user_id", n.UserID, "error", err)
	}
	_ = d.Ack(false)
}

func (q *AMQPQueue) Close() error {
	if q.pubCh != nil {
		_ = q.pubCh.Close()
	}
	if q.conCh != nil {
		_ = q.conCh.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
