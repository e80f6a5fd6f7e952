package worker

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/events"
	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/metrics"
	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/store"
)

var logg = logger.New()

// NotifierStore is the slice of the store the worker writes to.
type NotifierStore interface {
	FollowersOf(userID int64) []int64
	GetPost(postID int64) (models.Post, bool)
	AddNotification(userID int64, typ string, actorID, postID int64) models.Notification
}

// Worker consumes domain events and delivers notifications to user inboxes
// concurrently.
type Worker struct {
	store        NotifierStore
	reader       broker.Reader
	workerCount  int
	jobQueueSize int
}

// New creates a new concurrent Worker using pre-initialized dependencies.
func New(store NotifierStore, reader broker.Reader, workerCount, jobQueueSize int) *Worker {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if jobQueueSize <= 0 {
		jobQueueSize = workerCount * 10
	}
	return &Worker{
		store:        store,
		reader:       reader,
		workerCount:  workerCount,
		jobQueueSize: jobQueueSize,
	}
}

// Run starts event reading and concurrent processing.
func (w *Worker) Run(ctx context.Context) {
	if w.workerCount <= 0 {
		w.workerCount = 1
	}
	if w.jobQueueSize <= 0 {
		w.jobQueueSize = 10
	}

	logg.Info("worker", "Starting "+fmt.Sprint(w.workerCount)+" workers with queue size "+fmt.Sprint(w.jobQueueSize))

	jobs := make(chan []byte, w.jobQueueSize)
	var wg sync.WaitGroup

	for i := 0; i < w.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.processLoop(ctx, jobs)
		}()
	}

	w.readLoop(ctx, jobs)

	close(jobs)
	wg.Wait()
	logg.Info("worker", "All workers stopped gracefully")
}

// readLoop reads broker messages and pushes them into a job queue.
func (w *Worker) readLoop(ctx context.Context, jobs chan<- []byte) {
	var retry int
	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := w.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				backoff := time.Duration(math.Min(1000, math.Pow(2, float64(retry)))) * time.Millisecond
				logg.Error("worker", "Broker read error, backing off", err)
				if !waitWithContext(ctx, backoff) {
					return
				}
				retry++
				continue
			}
			retry = 0

			if len(msg.Value) == 0 {
				if !waitWithContext(ctx, 50*time.Millisecond) {
					return
				}
				continue
			}

			select {
			case jobs <- msg.Value:
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
				logg.Info("worker", "Queue full, waiting to enqueue event")
			}
		}
	}
}

// processLoop decodes events and appends notifications concurrently.
func (w *Worker) processLoop(ctx context.Context, jobs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-jobs:
			if !ok {
				return
			}

			event, err := events.Unmarshal(data)
			if err != nil {
				logg.Error("worker", "Invalid JSON in event message", err)
				continue
			}
			metrics.EventsConsumed.WithLabelValues(event.Type).Inc()
			w.handle(ctx, event)
		}
	}
}

// handle routes one event to the inboxes it touches.
func (w *Worker) handle(ctx context.Context, e events.Event) {
	switch e.Type {
	case events.PostCreated:
		w.fanout(ctx, e)

	case events.PostLiked:
		post, ok := w.store.GetPost(e.PostID)
		if !ok || post.AuthorID == e.ActorID {
			return
		}
		w.store.AddNotification(post.AuthorID, store.NotifyPostLiked, e.ActorID, e.PostID)

	case events.CommentAdded:
		post, ok := w.store.GetPost(e.PostID)
		if !ok || post.AuthorID == e.ActorID {
			return
		}
		w.store.AddNotification(post.AuthorID, store.NotifyCommentAdded, e.ActorID, e.PostID)

	case events.FollowToggled:
		// only a new edge notifies; unfollows stay quiet
		if !e.Following {
			return
		}
		w.store.AddNotification(e.SubjectID, store.NotifyNewFollower, e.ActorID, 0)

	default:
		logg.Info("worker", "Skipping event of unknown type "+e.Type)
	}
}

// fanout notifies every follower of the author about a new post.
func (w *Worker) fanout(ctx context.Context, e events.Event) {
	followers := w.store.FollowersOf(e.ActorID)

	const fanoutLimit = 20
	var fanoutWG sync.WaitGroup
	semaphore := make(chan struct{}, fanoutLimit)

	for _, uid := range followers {
		select {
		case <-ctx.Done():
			return
		default:
			fanoutWG.Add(1)
			semaphore <- struct{}{}

			go func(u int64) {
				defer fanoutWG.Done()
				defer func() { <-semaphore }()
				w.store.AddNotification(u, store.NotifyPostCreated, e.ActorID, e.PostID)
			}(uid)
		}
	}

	fanoutWG.Wait()
	logg.Info("worker", "Post delivered to followers (post ID anonymized)")
}

// waitWithContext waits for duration or context cancellation.
func waitWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Close shuts down the broker reader.
func (w *Worker) Close() error {
	logg.Info("worker", "Closing broker reader")
	if err := w.reader.Close(); err != nil {
		logg.Error("worker", "Error closing broker reader", err)
		return err
	}
	return nil
}
