package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/timely/internal/countdown"
	"github.com/erazemk/timely/internal/imaging"
	"github.com/erazemk/timely/internal/metrics"
	"github.com/erazemk/timely/internal/service"
)

// MaxUploadBody bounds a create request: one image plus the text fields.
const MaxUploadBody = imaging.MaxBytes + 1<<20

// CountdownsHandler serves the public countdown endpoints.
type CountdownsHandler struct {
	Creator   *service.Creator
	Retriever *service.Retriever
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

type createResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Create handles POST /api/create.
func (h *CountdownsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBody)

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Metrics.CreateFailed(string(service.ClassMedia))
			jsonResponse(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "request body too large", Code: string(service.ClassMedia), Fields: []string{"image"},
			})
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := service.CreateInput{
		Label:       r.FormValue("label"),
		Type:        r.FormValue("type"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Description: r.FormValue("description"),
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		upload, err := service.UploadFromForm(files[0])
		if err != nil {
			h.createFailed(w, err)
			return
		}
		in.Image = upload
	}

	c, err := h.Creator.Create(r.Context(), in)
	if err != nil {
		h.createFailed(w, err)
		return
	}

	h.Metrics.CountdownCreated(string(c.Type))
	jsonResponse(w, http.StatusCreated, createResponse{ID: c.ID, Message: "Countdown created successfully"})
}

func (h *CountdownsHandler) createFailed(w http.ResponseWriter, err error) {
	class := service.Classify(err)
	h.Metrics.CreateFailed(string(class))

	switch class {
	case service.ClassValidation, service.ClassMedia:
		jsonInvalid(w, err)
	default:
		slog.Error("failed to create countdown", "class", class, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create countdown")
	}
}

// Get handles GET /api/countdown/{id}.
func (h *CountdownsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Retriever.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.retrieveFailed(w, err)
		return
	}
	h.Metrics.Retrieved("found")
	jsonResponse(w, http.StatusOK, dataResponse{Data: c})
}

type remainingResponse struct {
	ID        string              `json:"id"`
	Target    time.Time           `json:"target"`
	Remaining countdown.Remaining `json:"remaining"`
	Text      string              `json:"text"`
}

// Remaining handles GET /api/countdown/{id}/remaining: a snapshot computed in
// the server's zone at request time.
func (h *CountdownsHandler) Remaining(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	snap, err := h.Retriever.Remaining(r.Context(), r.PathValue("id"), now())
	if err != nil {
		h.retrieveFailed(w, err)
		return
	}
	h.Metrics.Retrieved("found")
	jsonResponse(w, http.StatusOK, remainingResponse{
		ID:        snap.Countdown.ID,
		Target:    snap.Target,
		Remaining: snap.Remaining,
		Text:      snap.Remaining.String(),
	})
}

func (h *CountdownsHandler) retrieveFailed(w http.ResponseWriter, err error) {
	class := service.Classify(err)
	h.Metrics.Retrieved(string(class))

	switch class {
	case service.ClassNotFound:
		jsonResponse(w, http.StatusNotFound, dataResponse{Error: "Countdown not found"})
	case service.ClassUnavailable:
		jsonResponse(w, http.StatusServiceUnavailable, dataResponse{Error: "countdown store unavailable, try again"})
	default:
		slog.Error("failed to retrieve countdown", "error", err)
		jsonResponse(w, http.StatusInternalServerError, dataResponse{Error: "internal error"})
	}
}
