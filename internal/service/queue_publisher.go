// Package queue_publisher publishes chart change events to RabbitMQ.
// Failures are logged and never reach the request that caused the change.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/seating-chart/internal/queue"
	"github.com/iliyamo/seating-chart/internal/seating"
)

const (
	publishTimeout = 5 * time.Second
	backlog        = 64
)

// PublishChartChanged sends one persistent message to the durable
// seating.changed queue, declaring the queue first.
func PublishChartChanged(ctx context.Context, url string, event q.ChartChangedEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.ChangedQueueName, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ChangedQueueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Notifier turns store changes into published events.  Events are sent in
// commit order by one background goroutine; when the backlog is full new
// events are dropped with a warning.
type Notifier struct {
	publish func(context.Context, q.ChartChangedEvent) error
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
	events chan q.ChartChangedEvent
	done   chan struct{}
}

// NewNotifier returns a Notifier publishing to the broker at url.  An empty
// url yields nil; a nil Notifier ignores Observe and Close.
func NewNotifier(url string, log *zap.Logger) *Notifier {
	if url == "" {
		return nil
	}
	return newNotifier(func(ctx context.Context, ev q.ChartChangedEvent) error {
		return PublishChartChanged(ctx, url, ev)
	}, log)
}

func newNotifier(publish func(context.Context, q.ChartChangedEvent) error, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Notifier{
		publish: publish,
		log:     log,
		events:  make(chan q.ChartChangedEvent, backlog),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

// Observe is a seating.Subscriber.
func (n *Notifier) Observe(ch seating.Change) {
	if n == nil {
		return
	}
	ev := q.EventFromChange(ch)
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.events <- ev:
	default:
		n.log.Warn("change event dropped: backlog full", zap.String("op", ev.Op), zap.Uint64("version", ev.Version))
	}
}

// Close publishes what is queued and stops the goroutine.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.events)
	}
	n.mu.Unlock()
	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	for ev := range n.events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := n.publish(ctx, ev)
		cancel()
		if err != nil {
			n.log.Error("publish change event failed", zap.String("op", ev.Op), zap.Uint64("version", ev.Version), zap.Error(err))
		}
	}
}
