package queue

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is a process-local pub/sub queue. The API server uses it to
// run batch deliveries off the request goroutine. Handler errors are logged;
// there is no redelivery, since a batch run records its own per-row outcomes.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	logger   logrus.FieldLogger
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger logrus.FieldLogger) *InMemoryQueue {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
		logger:   logger,
	}
}

// Publish dispatches a payload to all subscribers of the topic, each on its
// own goroutine.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go func(h func(payload any) error) {
			if err := h(payload); err != nil {
				q.logger.WithField("topic", topic).WithError(err).Error("queue handler failed")
			}
		}(handler)
	}
	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}
