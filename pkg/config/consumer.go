package config

import (
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Consumer consumes messages from a single durable queue.
type Consumer struct {
	channel *amqp.Channel
	queue   string
}

// NewConsumer opens a channel and declares the queue.
func NewConsumer(conn *amqp.Connection, queueName string) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		channel: ch,
		queue:   q.Name,
	}, nil
}

// Consume delivers messages to handler until the channel closes. A handler
// error nacks the message back onto the queue.
func (c *Consumer) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return err
	}

	for msg := range msgs {
		if err := handler(msg.Body); err != nil {
			log.Errorf("Handle msg failed: %v", err)
			msg.Nack(false, true)
			continue
		}
		msg.Ack(false)
	}

	return nil
}

// Close closes the underlying channel.
func (c *Consumer) Close() error {
	return c.channel.Close()
}
