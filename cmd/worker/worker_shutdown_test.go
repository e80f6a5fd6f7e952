package worker

import (
	"context"
	"testing"
	"time"

	"example.com/socialfeed/internal/events"
	"example.com/socialfeed/internal/store"
	"github.com/segmentio/kafka-go"
)

// TestWorker_GracefulShutdown ensures that the worker:
// 1. Processes events from the broker.
// 2. Delivers notifications to follower inboxes.
// 3. Shuts down gracefully when the context is canceled.
func TestWorker_GracefulShutdown(t *testing.T) {
	st := store.New()
	author := st.CreateUser("author", "Author")
	follower := st.CreateUser("follower", "Follower")
	st.ToggleFollow(follower.ID, author.ID)
	post := st.CreatePost(author.ID, "shutdown test post", nil)

	msg, err := events.Marshal(events.Event{
		Type:    events.PostCreated,
		ActorID: author.ID,
		PostID:  post.ID,
		At:      time.Now(),
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Mock broker reader with a single message
	reader := &MockReader{
		Messages: []kafka.Message{msg},
	}

	// Context with timeout to simulate graceful shutdown signal
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})

	worker := &Worker{
		store:  st,
		reader: reader,
	}

	// Run the worker in a separate goroutine
	go func() {
		worker.Run(ctx) // Worker processes events until ctx.Done()
		close(done)
	}()

	// Wait for worker to finish or timeout
	select {
	case <-done:
		got := st.Notifications(follower.ID)
		if len(got) != 1 || got[0].PostID != post.ID {
			t.Fatalf("inbox not updated correctly: %+v", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not shutdown gracefully in time")
	}

	if err := worker.Close(); err != nil {
		t.Fatalf("worker Close() error: %v", err)
	}

	if !reader.Closed {
		t.Fatal("expected broker reader to be closed")
	}
}

// MockReader simulates a broker reader for testing purposes
type MockReader struct {
	Messages   []kafka.Message // Queue of messages to return
	ShouldFail bool            // If true, ReadMessage will fail
	Closed     bool            // Tracks whether Close() has been called
}

// ReadMessage returns the next message in the queue or simulates a failure/context cancel
func (m *MockReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if m.ShouldFail {
		return kafka.Message{}, ctx.Err()
	}
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	default:
	}

	if len(m.Messages) == 0 {
		time.Sleep(5 * time.Millisecond) // simulate idle wait
		return kafka.Message{}, nil
	}

	msg := m.Messages[0]
	m.Messages = m.Messages[1:]
	return msg, nil
}

// Close marks the mock broker reader as closed
func (m *MockReader) Close() error {
	m.Closed = true
	return nil
}
