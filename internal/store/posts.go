package store

import (
	"sync"
	"time"

	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/seq"
)

// post is the stored record. Everything except likes and comments is
// immutable once created.
type post struct {
	models.Post
	likes         map[int64]struct{}
	comments      []models.Comment
	nextCommentID int64
}

// Posts stores posts with their like sets and comment logs. Posts are never
// deleted.
type Posts struct {
	mu   sync.Mutex
	ids  seq.Counter
	byID map[int64]*post
}

func NewPosts() *Posts {
	return &Posts{byID: make(map[int64]*post)}
}

// Create allocates the next post id, stamps creation time and stores the
// post with an empty like set and comment log. A nil media list is
// normalized to an empty one.
func (p *Posts) Create(authorID int64, caption string, mediaURLs []string) models.Post {
	media := make([]string, len(mediaURLs))
	copy(media, mediaURLs)

	rec := &post{
		Post: models.Post{
			ID:        p.ids.Next(),
			AuthorID:  authorID,
			Caption:   caption,
			MediaURLs: media,
			Created:   time.Now(),
		},
		likes:         make(map[int64]struct{}),
		nextCommentID: 1,
	}

	p.mu.Lock()
	p.byID[rec.ID] = rec
	p.mu.Unlock()
	return rec.Post
}

// Get returns the immutable part of a post.
func (p *Posts) Get(postID int64) (models.Post, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.byID[postID]
	if !ok {
		return models.Post{}, false
	}
	return rec.Post, true
}

// ToggleLike flips membership of userID in the post's like set. It reports
// only whether the toggle was applied (false when the post is missing);
// the resulting state must be read back with IsLikedBy.
func (p *Posts) ToggleLike(postID, userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[postID]
	if !ok {
		return false
	}
	if _, liked := rec.likes[userID]; liked {
		delete(rec.likes, userID)
	} else {
		rec.likes[userID] = struct{}{}
	}
	return true
}

func (p *Posts) IsLikedBy(postID, userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[postID]
	if !ok {
		return false
	}
	_, liked := rec.likes[userID]
	return liked
}

// AddComment appends a comment with the next per-post id (starting at 1,
// never reused). Returns false when the post does not exist.
func (p *Posts) AddComment(postID, authorID int64, text string) (models.Comment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[postID]
	if !ok {
		return models.Comment{}, false
	}

	c := models.Comment{
		ID:       rec.nextCommentID,
		AuthorID: authorID,
		Text:     text,
		Created:  time.Now(),
	}
	rec.nextCommentID++
	rec.comments = append(rec.comments, c)
	return c, true
}
