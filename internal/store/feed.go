package store

import (
	"sort"

	"example.com/socialfeed/internal/models"
)

// UserResolver is the slice of the Directory the feed needs to denormalize
// author identity onto posts.
type UserResolver interface {
	ByID(id int64) (models.User, bool)
}

// Feed returns every stored post as a PostView, most recent first, ties
// broken by post id descending. The author username is resolved through
// users, falling back to "unknown" when the id does not resolve.
//
// This is the global timeline: the follow graph is deliberately not
// consulted here.
func (p *Posts) Feed(users UserResolver) []models.PostView {
	p.mu.Lock()
	views := make([]models.PostView, 0, len(p.byID))
	for _, rec := range p.byID {
		views = append(views, models.PostView{
			ID:           rec.ID,
			AuthorID:     rec.AuthorID,
			Caption:      rec.Caption,
			MediaURLs:    rec.MediaURLs,
			LikeCount:    len(rec.likes),
			CommentCount: len(rec.comments),
			Created:      rec.Created,
		})
	}
	p.mu.Unlock()

	sort.Slice(views, func(i, j int) bool {
		if !views[i].Created.Equal(views[j].Created) {
			return views[i].Created.After(views[j].Created)
		}
		return views[i].ID > views[j].ID
	})

	for i := range views {
		username := "unknown"
		if u, ok := users.ByID(views[i].AuthorID); ok {
			username = u.Username
		}
		views[i].AuthorUsername = username
	}
	return views
}
