package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"example.com/socialfeed/internal/broker"
	config "example.com/socialfeed/internal/init"
	"example.com/socialfeed/internal/logger"
	"example.com/socialfeed/internal/metrics"
	"example.com/socialfeed/internal/middleware"
	"example.com/socialfeed/internal/store"
)

type Server struct {
	store  store.Interface
	writer broker.Writer
}

var logg = logger.New()

// Run starts the HTTP server with token-protected routes and graceful shutdown.
func Run(ctx context.Context, st store.Interface, writer broker.Writer, cfg *config.Config) {
	s := &Server{
		store:  st,
		writer: writer,
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, s.Routes()),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	// --- Start server in a goroutine ---
	go func() {
		logg.Info("server", "Starting HTTP server on "+cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("server", "Server stopped unexpectedly", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	logg.Info("server", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server", "Error during server shutdown", err)
	} else {
		logg.Info("server", "Server stopped gracefully")
	}
}

// Routes binds the API surface. Register and login are public; everything
// else resolves the session token first.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/register", instrument("register", http.HandlerFunc(s.registerHandler))).Methods(http.MethodPost)
	api.Handle("/login", instrument("login", http.HandlerFunc(s.loginHandler))).Methods(http.MethodPost)

	authed := func(name string, h http.HandlerFunc) http.Handler {
		return instrument(name, middleware.Auth(s.store, h))
	}
	api.Handle("/posts", authed("create_post", s.createPostHandler)).Methods(http.MethodPost)
	api.Handle("/feed", authed("feed", s.getFeedHandler)).Methods(http.MethodGet)
	api.Handle("/posts/{postId}/like", authed("like", s.likeHandler)).Methods(http.MethodPost)
	api.Handle("/posts/{postId}/comment", authed("comment", s.commentHandler)).Methods(http.MethodPost)
	api.Handle("/users/{userId}/follow", authed("follow", s.followHandler)).Methods(http.MethodPost)
	api.Handle("/notifications", authed("notifications", s.notificationsHandler)).Methods(http.MethodGet)

	return r
}

// instrument counts requests per handler and response status.
func instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.HTTPRequests.WithLabelValues(name, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
