package web

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/erazemk/timely/internal/imaging"
)

// Upload handles GET /uploads/{name}. Stored files never change, so they are
// cached for a long time.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	p, err := s.Uploads.Path(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open upload", "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", imaging.MIMEForExt(filepath.Ext(name)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
