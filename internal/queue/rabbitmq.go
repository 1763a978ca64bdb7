package queue

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"blogapi/internal/config"
)

const (
	TaskQueueName = "mail_tasks"
	TaskExchange  = "tasks"
	taskRouteKey  = "mail"
)

// Client is a RabbitMQ-backed task queue: it publishes Task envelopes and
// runs a consumer that dispatches them to a handler function.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQClient connects to RabbitMQ and declares the durable exchange
// and queue used for background tasks.
func NewRabbitMQClient(cfg config.Config) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		TaskExchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		TaskQueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(TaskQueueName, taskRouteKey, TaskExchange, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host": cfg.RabbitMQHost,
		"port": cfg.RabbitMQPort,
	}).Info("connected to RabbitMQ")

	return &Client{
		conn:    conn,
		channel: channel,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish places a task on the queue.
func (c *Client) Publish(task Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.Publish(
		TaskExchange, // exchange
		taskRouteKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("handler", task.Handler).Error("failed to publish task")
		return fmt.Errorf("failed to publish task: %w", err)
	}

	logrus.WithField("handler", task.Handler).Info("published task")
	return nil
}

// Consume dispatches queued tasks to the handler in a background goroutine.
// A failing handler is logged and the message rejected without requeue: jobs
// are never retried automatically and their failures never reach the request
// that enqueued them.
func (c *Client) Consume(handler func(task Task) error) error {
	msgs, err := c.channel.Consume(
		TaskQueueName, // queue
		"",            // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logrus.WithField("queue", TaskQueueName).Info("consuming background tasks")

	go func() {
		for msg := range msgs {
			var task Task
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				logrus.WithError(err).Error("failed to unmarshal task")
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				logrus.WithError(err).WithField("handler", task.Handler).Error("task failed")
				msg.Nack(false, false)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

var _ Publisher = (*Client)(nil)
