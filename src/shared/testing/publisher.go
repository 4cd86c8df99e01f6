package testing

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-lab-be/src/shared/lib/rabbitmq"
)

var _ rabbitmq.Publisher = &RecordingPublisher{}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// RecordingPublisher captures published messages for assertion
// instead of sending them to a broker.
type RecordingPublisher struct {
	Unavailable bool
	Messages    []amqp091.Publishing
	mutex       sync.Mutex
}

func (r *RecordingPublisher) Publish(msg amqp091.Publishing) error {
	if r.Unavailable {
		return errors.New("the queue is unreachable")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.Messages = append(r.Messages, msg)
	return nil
}

func (r *RecordingPublisher) Unload() []amqp091.Publishing {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	messages := r.Messages
	r.Messages = nil
	return messages
}
