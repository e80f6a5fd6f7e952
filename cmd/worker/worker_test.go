package worker

import (
	"context"
	"testing"
	"time"

	"example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/events"
	"example.com/socialfeed/internal/store"
	"github.com/segmentio/kafka-go"
)

// runWorkerOnce processes a single broker message for testing.
func runWorkerOnce(ctx context.Context, st NotifierStore, reader broker.Reader) error {
	msg, err := reader.ReadMessage(ctx)
	if err != nil {
		return err
	}
	if len(msg.Value) == 0 {
		return nil
	}

	event, err := events.Unmarshal(msg.Value)
	if err != nil {
		return err
	}

	w := &Worker{store: st, reader: reader}
	w.handle(ctx, event)
	return nil
}

// publish marshals an event into the broker, failing the test on error.
func publish(t *testing.T, b *broker.Channel, e events.Event) {
	t.Helper()
	msg, err := events.Marshal(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := b.WriteMessages(msg); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

// ---------- Positive tests ----------

func TestWorker_PostCreatedFansOutToFollowers(t *testing.T) {
	st := store.New()
	author := st.CreateUser("author", "Author")
	follower := st.CreateUser("follower", "Follower")
	st.ToggleFollow(follower.ID, author.ID)
	post := st.CreatePost(author.ID, "hello followers", nil)

	b := broker.NewChannel(4)
	defer b.Close()
	publish(t, b, events.Event{Type: events.PostCreated, ActorID: author.ID, PostID: post.ID, At: time.Now()})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := runWorkerOnce(ctx, st, b); err != nil {
		t.Fatalf("worker failed: %v", err)
	}

	got := st.Notifications(follower.ID)
	if len(got) != 1 || got[0].Type != store.NotifyPostCreated || got[0].PostID != post.ID {
		t.Fatalf("follower inbox not updated correctly: %+v", got)
	}
	if n := st.Notifications(author.ID); len(n) != 0 {
		t.Fatalf("author must not be notified about own post, got %+v", n)
	}
}

func TestWorker_LikeNotifiesAuthor(t *testing.T) {
	st := store.New()
	author := st.CreateUser("author", "Author")
	fan := st.CreateUser("fan", "Fan")
	post := st.CreatePost(author.ID, "hi", nil)

	b := broker.NewChannel(4)
	defer b.Close()
	publish(t, b, events.Event{Type: events.PostLiked, ActorID: fan.ID, PostID: post.ID, At: time.Now()})

	ctx := context.Background()
	if err := runWorkerOnce(ctx, st, b); err != nil {
		t.Fatalf("worker failed: %v", err)
	}

	got := st.Notifications(author.ID)
	if len(got) != 1 || got[0].Type != store.NotifyPostLiked || got[0].ActorID != fan.ID {
		t.Fatalf("author inbox not updated correctly: %+v", got)
	}
}

func TestWorker_SelfLikeStaysQuiet(t *testing.T) {
	st := store.New()
	author := st.CreateUser("author", "Author")
	post := st.CreatePost(author.ID, "hi", nil)

	b := broker.NewChannel(4)
	defer b.Close()
	publish(t, b, events.Event{Type: events.PostLiked, ActorID: author.ID, PostID: post.ID, At: time.Now()})

	if err := runWorkerOnce(context.Background(), st, b); err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if got := st.Notifications(author.ID); len(got) != 0 {
		t.Fatalf("expected no self-notification, got %+v", got)
	}
}

func TestWorker_CommentNotifiesAuthor(t *testing.T) {
	st := store.New()
	author := st.CreateUser("author", "Author")
	commenter := st.CreateUser("commenter", "Commenter")
	post := st.CreatePost(author.ID, "hi", nil)
	st.AddComment(post.ID, commenter.ID, "nice")

	b := broker.NewChannel(4)
	defer b.Close()
	publish(t, b, events.Event{Type: events.CommentAdded, ActorID: commenter.ID, PostID: post.ID, At: time.Now()})

	if err := runWorkerOnce(context.Background(), st, b); err != nil {
		t.Fatalf("worker failed: %v", err)
	}

	got := st.Notifications(author.ID)
	if len(got) != 1 || got[0].Type != store.NotifyCommentAdded {
		t.Fatalf("author inbox not updated correctly: %+v", got)
	}
}

// a new edge notifies the target; an unfollow does not
func TestWorker_FollowToggled(t *testing.T) {
	st := store.New()
	target := st.CreateUser("target", "Target")
	actor := st.CreateUser("actor", "Actor")

	b := broker.NewChannel(4)
	defer b.Close()
	publish(t, b, events.Event{Type: events.FollowToggled, ActorID: actor.ID, SubjectID: target.ID, Following: true, At: time.Now()})
	publish(t, b, events.Event{Type: events.FollowToggled, ActorID: actor.ID, SubjectID: target.ID, Following: false, At: time.Now()})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := runWorkerOnce(ctx, st, b); err != nil {
			t.Fatalf("worker failed: %v", err)
		}
	}

	got := st.Notifications(target.ID)
	if len(got) != 1 || got[0].Type != store.NotifyNewFollower {
		t.Fatalf("expected a single new-follower notification, got %+v", got)
	}
}

// ---------- Negative tests ----------

func TestWorker_ReadError(t *testing.T) {
	st := store.New()
	b := broker.NewChannel(1)
	b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := runWorkerOnce(ctx, st, b); err == nil {
		t.Fatalf("expected error from closed broker")
	}
}

func TestWorker_InvalidEventJSON(t *testing.T) {
	st := store.New()
	b := broker.NewChannel(1)
	defer b.Close()
	if err := b.WriteMessages(kafka.Message{Value: []byte("{invalid-json}")}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := runWorkerOnce(context.Background(), st, b); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestWorker_EmptyMessage(t *testing.T) {
	st := store.New()
	b := broker.NewChannel(1)
	defer b.Close()
	if err := b.WriteMessages(kafka.Message{Value: nil}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := runWorkerOnce(context.Background(), st, b); err != nil {
		t.Fatalf("expected no error for empty message, got: %v", err)
	}
}

func TestWorker_LikeOnMissingPost(t *testing.T) {
	st := store.New()
	fan := st.CreateUser("fan", "Fan")

	b := broker.NewChannel(1)
	defer b.Close()
	publish(t, b, events.Event{Type: events.PostLiked, ActorID: fan.ID, PostID: 999, At: time.Now()})

	if err := runWorkerOnce(context.Background(), st, b); err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if got := st.Notifications(fan.ID); len(got) != 0 {
		t.Fatalf("expected no notifications for missing post, got %+v", got)
	}
}
