package events

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// RabbitMQ publishes events to a durable topic exchange.
type RabbitMQ struct {
	exchange string
	log      *zap.Logger

	mu    sync.Mutex
	conn  *amqp091.Connection
	pubCh *amqp091.Channel
}

// NewRabbitMQ dials url and declares exchange.
func NewRabbitMQ(ctx context.Context, url, exchange string, log *zap.Logger) (*RabbitMQ, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "school-management-api",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Info("rabbitmq connected", zap.String("exchange", exchange))

	return &RabbitMQ{
		exchange: exchange,
		log:      log,
		conn:     conn,
		pubCh:    ch,
	}, nil
}

// Publish sends payload under routingKey. Failures are logged only.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, payload any) {
	e := NewEvent(routingKey, payload)

	b, err := json.Marshal(e)
	if err != nil {
		r.log.Error("mq marshal error", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.pubCh.PublishWithContext(
		ctx,
		r.exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    e.ID.String(),
			Timestamp:    e.TS,
			Type:         routingKey,
			Body:         b,
		},
	)
	if err != nil {
		r.log.Error("mq publish error", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pubCh != nil {
		_ = r.pubCh.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
