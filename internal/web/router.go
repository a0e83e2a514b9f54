// Package web serves the creation wizard, the public countdown pages and
// uploaded images.
package web

import (
	"net/http"
	"time"

	"github.com/erazemk/timely/internal/files"
	"github.com/erazemk/timely/internal/metrics"
	"github.com/erazemk/timely/internal/service"
	webembed "github.com/erazemk/timely/web"
)

// Server holds all dependencies for page handlers.
type Server struct {
	Templates *Templates
	Creator   *service.Creator
	Retriever *service.Retriever
	Uploads   *files.Dir
	Metrics   *metrics.Metrics

	// PublicURL prefixes share links; empty means they are derived from the request.
	PublicURL string
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(s *Server) (http.Handler, error) {
	if s.Templates == nil {
		templates, err := LoadTemplates()
		if err != nil {
			return nil, err
		}
		s.Templates = templates
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /uploads/{name}", s.Upload)

	mux.HandleFunc("GET /{$}", s.Home)

	// Creation wizard. The draft travels as form fields between steps.
	mux.HandleFunc("GET /start", s.StartPage)
	mux.HandleFunc("POST /start", s.StartPage)
	mux.HandleFunc("POST /date", s.DatePage)
	mux.HandleFunc("POST /details", s.DetailsPage)
	mux.HandleFunc("POST /create", s.CreateSubmit)

	mux.HandleFunc("GET /c/{id}", s.CountdownPage)

	return SecurityHeaders(mux), nil
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "index.html", &PageData{})
}
