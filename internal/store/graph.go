package store

import "sync"

// Graph holds per-user follower sets. A user must be registered with AddUser
// (done on creation) before it can be followed.
type Graph struct {
	mu        sync.Mutex
	followers map[int64]map[int64]struct{}
}

func NewGraph() *Graph {
	return &Graph{followers: make(map[int64]map[int64]struct{})}
}

// AddUser creates an empty follower set for id. Idempotent.
func (g *Graph) AddUser(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.followers[id]; !ok {
		g.followers[id] = make(map[int64]struct{})
	}
}

// Toggle flips the follow edge from followerID to targetID and reports the
// resulting state. Self-follows and unknown targets are rejected with false
// and no state change. There is no separate unfollow: repeated calls
// alternate the edge.
func (g *Graph) Toggle(followerID, targetID int64) bool {
	if followerID == targetID {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.followers[targetID]
	if !ok {
		return false
	}
	if _, following := set[followerID]; following {
		delete(set, followerID)
		return false
	}
	set[followerID] = struct{}{}
	return true
}

// FollowersOf returns a snapshot of the ids following userID.
func (g *Graph) FollowersOf(userID int64) []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	set := g.followers[userID]
	res := make([]int64, 0, len(set))
	for id := range set {
		res = append(res, id)
	}
	return res
}
