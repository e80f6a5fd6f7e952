package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"example.com/socialfeed/internal/events"
	"example.com/socialfeed/internal/metrics"
	"example.com/socialfeed/internal/middleware"
)

// --- HTTP Handlers ---

// registerHandler handles POST requests to create a new user.
// Expects JSON body: {"username": "alice", "name": "Alice"}
// Returns JSON response: {"user_id": <id>, "username": <name>}
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/register", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if body.Username == "" || body.Name == "" {
		logg.Info("http/register", "Missing username or name")
		http.Error(w, "username and name are required", http.StatusBadRequest)
		return
	}

	_, existed := s.store.FindByUsername(body.Username)
	user := s.store.CreateUser(body.Username, body.Name)
	if existed {
		logg.Info("http/register", "User already exists, returning existing user_id="+strconv.FormatInt(user.ID, 10))
	} else {
		metrics.UsersCreated.Inc()
		logg.Info("http/register", "User created successfully with user_id="+strconv.FormatInt(user.ID, 10))
	}

	writeJSON(w, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// loginHandler issues a session token for an existing username.
// Expects JSON body: {"username": "alice"}
// Returns JSON response: {"token": <opaque token>}
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username string `json:"username"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/login", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, ok := s.store.FindByUsername(body.Username)
	if !ok {
		logg.Info("http/login", "Login attempt for unknown username")
		http.Error(w, "no such user", http.StatusUnauthorized)
		return
	}

	token := s.store.CreateToken(user.ID)
	writeJSON(w, map[string]any{"token": token})
}

// createPostHandler stores a post and publishes a post_created event.
// Expects JSON body: {"caption": "hi", "media_urls": ["..."]}
// Returns JSON response: {"post_id": <id>}
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Caption   string   `json:"caption"`
		MediaURLs []string `json:"media_urls"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/posts", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if body.Caption == "" && len(body.MediaURLs) == 0 {
		logg.Info("http/posts", "Rejected empty post for user_id="+strconv.FormatInt(userID, 10))
		http.Error(w, "post must have a caption or media", http.StatusBadRequest)
		return
	}

	post := s.store.CreatePost(userID, body.Caption, body.MediaURLs)
	metrics.PostsCreated.Inc()
	logg.Info("http/posts", "Post created successfully by user_id="+strconv.FormatInt(userID, 10))

	s.publish("http/posts", events.Event{
		Type:    events.PostCreated,
		ActorID: userID,
		PostID:  post.ID,
		At:      post.Created,
	})

	writeJSON(w, map[string]any{"post_id": post.ID})
}

// getFeedHandler returns the global timeline, most recent first.
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	feed := s.store.Feed()
	logg.Info("http/feed", "Feed retrieved for user_id="+strconv.FormatInt(userID, 10))

	writeJSON(w, map[string]any{"feed": feed})
}

// likeHandler toggles the caller's like on a post and reports the state
// read back after the toggle.
// Returns JSON response: {"liked": <bool>}
func (s *Server) likeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := pathID(r, "postId")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if !s.store.ToggleLike(postID, userID) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	metrics.LikesToggled.Inc()

	// The toggle does not report the resulting state; read it back. A
	// concurrent toggle may have flipped it again in between.
	liked := s.store.IsLikedBy(postID, userID)
	if liked {
		s.publish("http/like", events.Event{
			Type:    events.PostLiked,
			ActorID: userID,
			PostID:  postID,
			At:      time.Now(),
		})
	}

	writeJSON(w, map[string]any{"liked": liked})
}

// commentHandler appends a comment to a post.
// Expects JSON body: {"text": "nice"}
// Returns JSON response: {"comment_id": <per-post id>}
func (s *Server) commentHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Text string `json:"text"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/comment", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := pathID(r, "postId")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "comment text is required", http.StatusBadRequest)
		return
	}

	comment, ok := s.store.AddComment(postID, userID, body.Text)
	if !ok {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	metrics.CommentsAdded.Inc()

	s.publish("http/comment", events.Event{
		Type:    events.CommentAdded,
		ActorID: userID,
		PostID:  postID,
		At:      comment.Created,
	})

	writeJSON(w, map[string]any{"comment_id": comment.ID})
}

// followHandler toggles a follow edge from the caller to the target user.
// Returns JSON response: {"following": <bool>}
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := pathID(r, "userId")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if _, ok := s.store.FindByID(targetID); !ok {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	following := s.store.ToggleFollow(userID, targetID)
	metrics.FollowsToggled.Inc()
	logg.Info("http/follow", "Follow toggled by user_id="+strconv.FormatInt(userID, 10))

	s.publish("http/follow", events.Event{
		Type:      events.FollowToggled,
		ActorID:   userID,
		SubjectID: targetID,
		Following: following,
		At:        time.Now(),
	})

	writeJSON(w, map[string]any{"following": following})
}

// notificationsHandler returns the caller's inbox, newest first.
func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, map[string]any{"notifications": s.store.Notifications(userID)})
}

// --- Helpers ---

// publish sends a domain event to the broker. The store is the source of
// truth, so a publish failure is logged but never fails the request.
func (s *Server) publish(module string, e events.Event) {
	msg, err := events.Marshal(e)
	if err != nil {
		logg.Error(module, "Failed to marshal event", err)
		return
	}
	if err := s.writer.WriteMessages(msg); err != nil {
		logg.Error(module, "Failed to publish event", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(e.Type).Inc()
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
