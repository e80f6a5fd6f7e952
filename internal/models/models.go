package models

import "time"

type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Caption   string    `json:"caption"`
	MediaURLs []string  `json:"media_urls"`
	Created   time.Time `json:"created"`
}

type Comment struct {
	ID       int64     `json:"id"`
	AuthorID int64     `json:"author_id"`
	Text     string    `json:"text"`
	Created  time.Time `json:"created"`
}

// PostView is the denormalized read shape of a post: author username joined
// in, like set and comment log collapsed to counts.
type PostView struct {
	ID             int64     `json:"id"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Caption        string    `json:"caption"`
	MediaURLs      []string  `json:"media_urls"`
	LikeCount      int       `json:"like_count"`
	CommentCount   int       `json:"comment_count"`
	Created        time.Time `json:"created"`
}

type Notification struct {
	ID      int64     `json:"id"`
	Type    string    `json:"type"`
	ActorID int64     `json:"actor_id"`
	PostID  int64     `json:"post_id,omitempty"`
	Created time.Time `json:"created"`
}
