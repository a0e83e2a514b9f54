package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/service"
)

type countdownPage struct {
	PageData
	Countdown *model.Countdown
	Remaining countdown.Remaining
	ShareURL  string
}

// CountdownPage handles GET /c/{id}. The initial snapshot is computed in the
// server's zone; the page script recomputes it in the viewer's zone.
func (s *Server) CountdownPage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Retriever.Remaining(r.Context(), r.PathValue("id"), s.now())
	if err != nil {
		class := service.Classify(err)
		s.Metrics.Retrieved(string(class))

		switch class {
		case service.ClassNotFound:
			s.Templates.Render(w, http.StatusNotFound, "notfound.html", &PageData{Title: "Not found"})
		case service.ClassUnavailable:
			s.Templates.Render(w, http.StatusServiceUnavailable, "notfound.html", &PageData{
				Title: "Unavailable",
				Error: "Countdowns are temporarily unavailable, please try again.",
			})
		default:
			slog.Error("failed to load countdown page", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	s.Metrics.Retrieved("found")
	s.Templates.Render(w, http.StatusOK, "countdown.html", &countdownPage{
		PageData:  PageData{Title: snap.Countdown.Label},
		Countdown: snap.Countdown,
		Remaining: snap.Remaining,
		ShareURL:  s.shareURL(r, snap.Countdown.ID),
	})
}

// shareURL builds the absolute link to a countdown page.
func (s *Server) shareURL(r *http.Request, id string) string {
	base := strings.TrimSuffix(s.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/c/" + id
}
