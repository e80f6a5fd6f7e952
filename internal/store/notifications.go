package store

import (
	"sync"
	"time"

	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/seq"
)

// Notification types appended by the worker.
const (
	NotifyPostCreated  = "post_created"
	NotifyPostLiked    = "post_liked"
	NotifyCommentAdded = "comment_added"
	NotifyNewFollower  = "new_follower"
)

// Inbox holds per-user notification logs. Append-only, process lifetime.
type Inbox struct {
	mu     sync.Mutex
	ids    seq.Counter
	byUser map[int64][]models.Notification
}

func NewInbox() *Inbox {
	return &Inbox{byUser: make(map[int64][]models.Notification)}
}

// Add appends a notification to userID's inbox, assigning id and timestamp.
func (i *Inbox) Add(userID int64, typ string, actorID, postID int64) models.Notification {
	n := models.Notification{
		ID:      i.ids.Next(),
		Type:    typ,
		ActorID: actorID,
		PostID:  postID,
		Created: time.Now(),
	}
	i.mu.Lock()
	i.byUser[userID] = append(i.byUser[userID], n)
	i.mu.Unlock()
	return n
}

// Notifications returns userID's inbox, newest first.
func (i *Inbox) Notifications(userID int64) []models.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	log := i.byUser[userID]
	res := make([]models.Notification, len(log))
	for j, n := range log {
		res[len(log)-1-j] = n
	}
	return res
}
