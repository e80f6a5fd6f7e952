// Package events defines the domain events published by the server after a
// successful mutation and consumed by the notification worker.
package events

import (
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	PostCreated   = "post_created"
	PostLiked     = "post_liked"
	CommentAdded  = "comment_added"
	FollowToggled = "follow_toggled"
)

// Event is the wire envelope. ActorID is the user who performed the action,
// SubjectID the target user for follow events, PostID the affected post.
type Event struct {
	Type      string    `json:"type"`
	ActorID   int64     `json:"actor_id"`
	SubjectID int64     `json:"subject_id,omitempty"`
	PostID    int64     `json:"post_id,omitempty"`
	Following bool      `json:"following,omitempty"`
	At        time.Time `json:"at"`
}

// Marshal wraps the event in a Kafka message keyed by its type.
func Marshal(e Event) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(e.Type), Value: data}, nil
}

func Unmarshal(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
