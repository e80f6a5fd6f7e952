package store

import (
	"sync"

	"example.com/socialfeed/internal/models"
	"example.com/socialfeed/internal/seq"
)

// Directory maps usernames to user records. Users are never deleted and
// records are immutable once created.
type Directory struct {
	mu     sync.Mutex
	ids    seq.Counter
	byID   map[int64]models.User
	byName map[string]int64
}

func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[int64]models.User),
		byName: make(map[string]int64),
	}
}

// Create returns the user for username, creating it if needed. When the
// username is already taken the existing record is returned unchanged
// (first displayName wins), so racing creates converge on one record.
// The created flag reports whether a new record was stored.
func (d *Directory) Create(username, displayName string) (models.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.byName[username]; ok {
		return d.byID[id], false
	}

	u := models.User{
		ID:          d.ids.Next(),
		Username:    username,
		DisplayName: displayName,
	}
	d.byID[u.ID] = u
	d.byName[username] = u.ID
	return u, true
}

func (d *Directory) ByUsername(username string) (models.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.byName[username]
	if !ok {
		return models.User{}, false
	}
	u, ok := d.byID[id]
	return u, ok
}

func (d *Directory) ByID(id int64) (models.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.byID[id]
	return u, ok
}
