package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UsersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_users_created_total",
		Help: "Total users created",
	})
	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_posts_created_total",
		Help: "Total posts created",
	})
	LikesToggled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_likes_toggled_total",
		Help: "Total like toggles applied",
	})
	CommentsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_comments_added_total",
		Help: "Total comments appended",
	})
	FollowsToggled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialfeed_follows_toggled_total",
		Help: "Total follow toggles applied",
	})
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_events_published_total",
		Help: "Total domain events published",
	}, []string{"type"})
	EventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_events_consumed_total",
		Help: "Total domain events consumed by the worker",
	}, []string{"type"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialfeed_http_requests_total",
		Help: "Total HTTP requests by handler and status",
	}, []string{"handler", "status"})
)

func init() {
	prometheus.MustRegister(
		UsersCreated, PostsCreated, LikesToggled, CommentsAdded,
		FollowsToggled, EventsPublished, EventsConsumed, HTTPRequests,
	)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// Does nothing when addr is empty.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}
