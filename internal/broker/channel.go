package broker

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
)

// ErrClosed is returned once the channel broker has been closed.
var ErrClosed = errors.New("channel broker is closed")

// Channel is an in-process broker backed by a buffered channel. It is the
// default transport between the server and the notification worker when no
// external Kafka broker is configured: the store is in-memory, so both ends
// must live in one process anyway.
type Channel struct {
	ch   chan kafka.Message
	done chan struct{}
	once sync.Once
}

// NewChannel creates a Channel broker with the given buffer size.
func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 256
	}
	return &Channel{
		ch:   make(chan kafka.Message, size),
		done: make(chan struct{}),
	}
}

// WriteMessages enqueues messages, blocking while the buffer is full.
func (c *Channel) WriteMessages(messages ...kafka.Message) error {
	for _, msg := range messages {
		select {
		case c.ch <- msg:
		case <-c.done:
			return ErrClosed
		}
	}
	return nil
}

// ReadMessage blocks until a message arrives, the broker closes, or ctx is
// done. Messages still buffered at close time are drained before ErrClosed.
func (c *Channel) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-c.ch:
		return msg, nil
	default:
	}
	select {
	case msg := <-c.ch:
		return msg, nil
	case <-c.done:
		return kafka.Message{}, ErrClosed
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (c *Channel) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// WriterFail always fails; used in negative tests.
type WriterFail struct{}

func (WriterFail) WriteMessages(messages ...kafka.Message) error {
	return errors.New("broker write failed")
}

func (WriterFail) Close() error { return nil }
