// Package store is the in-memory social state: users, sessions, the follow
// graph, posts with likes and comments, and notification inboxes. Each
// collection guards itself with its own lock; nothing is persisted and all
// state lives for the process lifetime.
package store

import "example.com/socialfeed/internal/models"

// Interface is the full operation surface a transport adapter binds.
type Interface interface {
	CreateUser(username, displayName string) models.User
	FindByUsername(username string) (models.User, bool)
	FindByID(id int64) (models.User, bool)

	CreateToken(userID int64) string
	Resolve(header string) (int64, bool)

	ToggleFollow(followerID, targetID int64) bool
	FollowersOf(userID int64) []int64

	CreatePost(authorID int64, caption string, mediaURLs []string) models.Post
	GetPost(postID int64) (models.Post, bool)
	ToggleLike(postID, userID int64) bool
	IsLikedBy(postID, userID int64) bool
	AddComment(postID, authorID int64, text string) (models.Comment, bool)
	Feed() []models.PostView

	AddNotification(userID int64, typ string, actorID, postID int64) models.Notification
	Notifications(userID int64) []models.Notification
}

// Store wires the independent services together. Components stay
// individually constructible for tests; Store only composes them.
type Store struct {
	Users    *Directory
	Graph    *Graph
	Sessions *Sessions
	Posts    *Posts
	Inbox    *Inbox
}

func New() *Store {
	return &Store{
		Users:    NewDirectory(),
		Graph:    NewGraph(),
		Sessions: NewSessions(),
		Posts:    NewPosts(),
		Inbox:    NewInbox(),
	}
}

// CreateUser creates (or returns) the user and registers its follower set.
func (s *Store) CreateUser(username, displayName string) models.User {
	u, created := s.Users.Create(username, displayName)
	if created {
		s.Graph.AddUser(u.ID)
	}
	return u
}

func (s *Store) FindByUsername(username string) (models.User, bool) {
	return s.Users.ByUsername(username)
}

func (s *Store) FindByID(id int64) (models.User, bool) {
	return s.Users.ByID(id)
}

func (s *Store) CreateToken(userID int64) string {
	return s.Sessions.Create(userID)
}

func (s *Store) Resolve(header string) (int64, bool) {
	return s.Sessions.Resolve(header)
}

func (s *Store) ToggleFollow(followerID, targetID int64) bool {
	return s.Graph.Toggle(followerID, targetID)
}

func (s *Store) FollowersOf(userID int64) []int64 {
	return s.Graph.FollowersOf(userID)
}

func (s *Store) CreatePost(authorID int64, caption string, mediaURLs []string) models.Post {
	return s.Posts.Create(authorID, caption, mediaURLs)
}

func (s *Store) GetPost(postID int64) (models.Post, bool) {
	return s.Posts.Get(postID)
}

func (s *Store) ToggleLike(postID, userID int64) bool {
	return s.Posts.ToggleLike(postID, userID)
}

func (s *Store) IsLikedBy(postID, userID int64) bool {
	return s.Posts.IsLikedBy(postID, userID)
}

func (s *Store) AddComment(postID, authorID int64, text string) (models.Comment, bool) {
	return s.Posts.AddComment(postID, authorID, text)
}

func (s *Store) Feed() []models.PostView {
	return s.Posts.Feed(s.Users)
}

func (s *Store) AddNotification(userID int64, typ string, actorID, postID int64) models.Notification {
	return s.Inbox.Add(userID, typ, actorID, postID)
}

func (s *Store) Notifications(userID int64) []models.Notification {
	return s.Inbox.Notifications(userID)
}
