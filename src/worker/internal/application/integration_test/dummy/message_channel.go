package dummy

import (
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

// MessageChannel feeds deliveries to the queue worker from a plain Go
// channel so the consume loop can be driven without a broker.
type MessageChannel struct {
	Deliveries chan amqp091.Delivery
}

func NewDummyMessageChannel() *MessageChannel {
	return &MessageChannel{
		Deliveries: make(chan amqp091.Delivery, 10),
	}
}

func (m *MessageChannel) Consume(queue string, consumer string, autoAck bool, exclusive bool, noLocal bool, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error) {
	return m.Deliveries, nil
}

func (m *MessageChannel) Close() error {
	return nil
}

var _ amqp091.Acknowledger = &Acknowledger{}

// Acknowledger records ack/nack outcomes per delivery tag.
type Acknowledger struct {
	Acked  []uint64
	Nacked []uint64
	mutex  sync.Mutex
}

func NewDummyAcknowledger() *Acknowledger {
	return &Acknowledger{}
}

func (a *Acknowledger) Ack(tag uint64, multiple bool) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.Acked = append(a.Acked, tag)
	return nil
}

func (a *Acknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.Nacked = append(a.Nacked, tag)
	return nil
}

func (a *Acknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *Acknowledger) AckedTags() []uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]uint64{}, a.Acked...)
}

func (a *Acknowledger) NackedTags() []uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]uint64{}, a.Nacked...)
}
