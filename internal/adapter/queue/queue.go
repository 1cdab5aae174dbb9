// Package queue publishes and consumes assistant events over a message
// broker. Two brokers are supported; the driver is picked by configuration.
package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// MessageQueue is the broker surface the services depend on. Subscribe
// handlers run on broker goroutines; a handler error is logged, never fatal.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New connects the broker named by driver ("nats" or "rabbitmq").
func New(driver, url string, log *zap.Logger) (MessageQueue, error) {
	switch driver {
	case "nats":
		return NewNATSQueue(url, log)
	case "rabbitmq":
		return NewRabbitMQQueue(url, log)
	default:
		return nil, fmt.Errorf("queue: unknown driver %q", driver)
	}
}
