package queue

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSQueue carries events over core NATS subjects.
type NATSQueue struct {
	conn *nats.Conn
	log  *zap.Logger
}

var _ MessageQueue = (*NATSQueue)(nil)

func NewNATSQueue(url string, log *zap.Logger) (MessageQueue, error) {
	nc, err := nats.Connect(url, nats.Name("vaani"))
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}

	log.Info("connected to NATS", zap.String("url", url))
	return &NATSQueue{conn: nc, log: log}, nil
}

func (q *NATSQueue) Publish(subject string, data []byte) error {
	return q.conn.Publish(subject, data)
}

func (q *NATSQueue) Subscribe(subject string, handler func(data []byte) error) error {
	_, err := q.conn.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			q.log.Error("event handler failed",
				zap.String("subject", subject), zap.Error(err))
		}
	})
	return err
}

// Close drains the connection so buffered publishes are flushed first.
func (q *NATSQueue) Close() error {
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}
