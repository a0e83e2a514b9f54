package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/timely/internal/auth"
	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AdminHandler serves the read-only operator endpoints.
type AdminHandler struct {
	Store     store.Backend
	JWTSecret string
	Username  string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, ok, err := h.Store.GetSetting(r.Context(), store.SettingAdminPasswordHash)
	if err != nil {
		slog.Error("failed to load admin password", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok || req.Username != h.Username || !auth.CheckPassword(hash, req.Password) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, claims, err := auth.GenerateToken(h.JWTSecret, h.Username, time.Now())
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("operator logged in", "user", h.Username)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time})
}

// Logout handles POST /api/admin/logout by revoking the presented token.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.Store.RevokeToken(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	slog.Info("operator logged out", "user", claims.Subject)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type listResponse struct {
	Data   []model.Countdown `json:"data"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// List handles GET /api/admin/countdowns?limit=&offset=.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	limit = min(limit, maxListLimit)

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		jsonError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	countdowns, err := h.Store.ListCountdowns(r.Context(), limit, offset)
	if err != nil {
		slog.Error("failed to list countdowns", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "countdown store unavailable, try again")
		return
	}
	if countdowns == nil {
		countdowns = []model.Countdown{}
	}
	jsonResponse(w, http.StatusOK, listResponse{Data: countdowns, Limit: limit, Offset: offset})
}

type statsResponse struct {
	Total  int                         `json:"total"`
	ByType map[model.CountdownType]int `json:"by_type"`
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Store.CountByType(r.Context())
	if err != nil {
		slog.Error("failed to count countdowns", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "countdown store unavailable, try again")
		return
	}

	resp := statsResponse{ByType: make(map[model.CountdownType]int, len(model.Types))}
	for _, t := range model.Types {
		resp.ByType[t] = counts[t]
		resp.Total += counts[t]
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Pinger checks that the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /healthz.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			slog.Warn("health check failed", "error", err)
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
