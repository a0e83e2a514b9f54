package api

import (
	"net/http"
	"time"

	"github.com/erazemk/timely/internal/metrics"
	"github.com/erazemk/timely/internal/service"
	"github.com/erazemk/timely/internal/store"
)

// Options wires the API router to the services it exposes.
type Options struct {
	Store     store.Backend
	Creator   *service.Creator
	Retriever *service.Retriever
	Metrics   *metrics.Metrics
	JWTSecret string
	AdminUser string
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter creates the API router with all endpoints registered, including
// /healthz and /metrics.
func NewRouter(o Options) http.Handler {
	mux := http.NewServeMux()

	countdowns := &CountdownsHandler{
		Creator:   o.Creator,
		Retriever: o.Retriever,
		Metrics:   o.Metrics,
		Now:       o.Now,
	}
	admin := &AdminHandler{
		Store:     o.Store,
		JWTSecret: o.JWTSecret,
		Username:  o.AdminUser,
	}
	authMW := AuthMiddleware(o.JWTSecret, o.Store)

	// Public.
	mux.HandleFunc("POST /api/create", countdowns.Create)
	mux.HandleFunc("GET /api/countdown/{id}", countdowns.Get)
	mux.HandleFunc("GET /api/countdown/{id}/remaining", countdowns.Remaining)

	// Operator (read-only).
	mux.HandleFunc("POST /api/admin/login", admin.Login)
	mux.Handle("POST /api/admin/logout", authMW(http.HandlerFunc(admin.Logout)))
	mux.Handle("GET /api/admin/countdowns", authMW(http.HandlerFunc(admin.List)))
	mux.Handle("GET /api/admin/stats", authMW(http.HandlerFunc(admin.Stats)))

	mux.Handle("GET /healthz", Health(o.Store))
	mux.Handle("GET /metrics", o.Metrics.Handler())

	return mux
}
