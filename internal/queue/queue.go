// Package queue carries job IDs between the web app and the dispatch
// worker. The AMQP implementation is the deployed transport; the
// in-memory one backs tests and single-process development.
package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

const DispatchQueueName = "job_dispatch"

// JobMessage is the payload placed on the dispatch queue.
type JobMessage struct {
	JobID int64 `json:"job_id"`
}

// Queue publishes job IDs for asynchronous dispatch.
type Queue interface {
	Publish(jobID int64) error
	Close() error
}

// ===================== AMQP =====================

type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

// NewAMQPQueue dials RabbitMQ and declares the durable dispatch queue.
func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		DispatchQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, name: q.Name}, nil
}

func (q *AMQPQueue) Publish(jobID int64) error {
	body, err := json.Marshal(JobMessage{JobID: jobID})
	if err != nil {
		return err
	}
	return q.ch.Publish(
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume registers a consumer with manual acks and returns the
// delivery channel. The worker decides ack vs. requeue per message.
func (q *AMQPQueue) Consume() (<-chan amqp.Delivery, error) {
	return q.ch.Consume(
		q.name,
		"",    // consumer tag
		false, // autoAck off for reliability
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

// ===================== In-memory =====================

// InMemoryQueue delivers published job IDs to registered handlers in a
// goroutine each. No retry here: the consumer side owns retry policy.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers []func(jobID int64)
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{}
}

func (q *InMemoryQueue) Publish(jobID int64) error {
	q.mu.Lock()
	handlers := append([]func(int64){}, q.handlers...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for dispatch queue")
	}
	for _, h := range handlers {
		go h(jobID)
	}
	return nil
}

func (q *InMemoryQueue) Subscribe(handler func(jobID int64)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

func (q *InMemoryQueue) Close() error { return nil }

var (
	_ Queue = (*AMQPQueue)(nil)
	_ Queue = (*InMemoryQueue)(nil)
)
