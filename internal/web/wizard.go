package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/timely/internal/api"
	"github.com/erazemk/timely/internal/imaging"
	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/service"
)

type wizardPage struct {
	PageData
	Step           int
	Draft          *service.Draft
	Types          []model.CountdownType
	MaxLabel       int
	MaxDescription int
}

func (s *Server) renderStep(w http.ResponseWriter, status, step int, d *service.Draft, msg string) {
	names := map[int]string{1: "start.html", 2: "date.html", 3: "details.html"}
	titles := map[int]string{1: "What are we counting down?", 2: "When is it happening?", 3: "Add extra details"}

	s.Templates.Render(w, status, names[step], &wizardPage{
		PageData:       PageData{Title: titles[step], Error: msg},
		Step:           step,
		Draft:          d,
		Types:          model.Types,
		MaxLabel:       model.MaxLabelLength,
		MaxDescription: model.MaxDescriptionLength,
	})
}

// draftFromForm rebuilds the draft carried in the submitted form fields.
func draftFromForm(r *http.Request) *service.Draft {
	d := &service.Draft{}
	d.SetLabel(r.FormValue("label"))
	d.SetType(r.FormValue("type"))
	d.SetDate(r.FormValue("date"))
	d.SetTime(r.FormValue("time"))
	d.SetDescription(r.FormValue("description"))
	return d
}

// StartPage handles GET /start and POST /start (back from the date step).
func (s *Server) StartPage(w http.ResponseWriter, r *http.Request) {
	d := &service.Draft{}
	if r.Method == http.MethodPost {
		d = draftFromForm(r)
	}
	s.renderStep(w, http.StatusOK, 1, d, "")
}

// DatePage handles POST /date: checks the label step and shows the date step.
func (s *Server) DatePage(w http.ResponseWriter, r *http.Request) {
	d := draftFromForm(r)
	if err := d.CheckLabelStep(); err != nil {
		s.renderStep(w, http.StatusBadRequest, 1, d, err.Error())
		return
	}
	s.renderStep(w, http.StatusOK, 2, d, "")
}

// DetailsPage handles POST /details: checks the date step and shows the
// details step.
func (s *Server) DetailsPage(w http.ResponseWriter, r *http.Request) {
	d := draftFromForm(r)
	if err := d.CheckLabelStep(); err != nil {
		s.renderStep(w, http.StatusBadRequest, 1, d, err.Error())
		return
	}
	if err := d.CheckDateStep(s.now()); err != nil {
		s.renderStep(w, http.StatusBadRequest, 2, d, err.Error())
		return
	}
	s.renderStep(w, http.StatusOK, 3, d, "")
}

// CreateSubmit handles POST /create: validates every step, creates the
// countdown and redirects to its page.
func (s *Server) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, api.MaxUploadBody)

	d := &service.Draft{}
	if err := readCreateForm(r, d); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, imaging.ErrTooLarge) || errors.As(err, &tooLarge):
			s.Metrics.CreateFailed(string(service.ClassMedia))
			s.renderStep(w, http.StatusRequestEntityTooLarge, 3, d, imaging.ErrTooLarge.Error())
		case service.Classify(err) == service.ClassMedia:
			s.createFailed(w, d, err)
		default:
			http.Error(w, "invalid form", http.StatusBadRequest)
		}
		return
	}

	if err := d.CheckLabelStep(); err != nil {
		s.createFailed(w, d, err)
		return
	}
	if err := d.CheckDateStep(s.now()); err != nil {
		s.createFailed(w, d, err)
		return
	}
	if err := d.CheckDetailsStep(); err != nil {
		s.createFailed(w, d, err)
		return
	}

	c, err := s.Creator.Create(r.Context(), d.Input())
	if err != nil {
		s.createFailed(w, d, err)
		return
	}
	d.Reset()

	s.Metrics.CountdownCreated(string(c.Type))
	http.Redirect(w, r, "/c/"+c.ID, http.StatusSeeOther)
}

// maxFieldBytes bounds a single text field of the create form.
const maxFieldBytes = 64 << 10

// readCreateForm streams the multipart create form into d. The text fields
// precede the image in the form, so they are kept in d even when reading the
// image fails.
func readCreateForm(r *http.Request, d *service.Draft) error {
	mr, err := r.MultipartReader()
	if err != nil {
		return fmt.Errorf("reading form: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading form part: %w", err)
		}

		name := part.FormName()
		if name == "image" {
			if part.FileName() == "" {
				continue
			}
			upload, err := service.ReadUpload(part.FileName(), part.Header.Get("Content-Type"), part)
			if err != nil {
				return err
			}
			d.SetImage(upload)
			continue
		}

		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return fmt.Errorf("reading field %s: %w", name, err)
		}
		if len(value) > maxFieldBytes {
			return fmt.Errorf("field %s too large", name)
		}

		switch name {
		case "label":
			d.SetLabel(string(value))
		case "type":
			d.SetType(string(value))
		case "date":
			d.SetDate(string(value))
		case "time":
			d.SetTime(string(value))
		case "description":
			d.SetDescription(string(value))
		}
	}
}

// createFailed re-renders the step the error belongs to, or an error page
// for infrastructure failures.
func (s *Server) createFailed(w http.ResponseWriter, d *service.Draft, err error) {
	class := service.Classify(err)
	s.Metrics.CreateFailed(string(class))

	switch class {
	case service.ClassValidation, service.ClassMedia:
		s.renderStep(w, http.StatusBadRequest, stepFor(err), d, err.Error())
	default:
		slog.Error("failed to create countdown", "class", class, "error", err)
		s.renderStep(w, http.StatusInternalServerError, 3, d, "Failed to create countdown, please try again.")
	}
}

// stepFor returns the wizard step owning the first offending field.
func stepFor(err error) int {
	var verr *service.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) == 0 {
		return 3
	}
	switch verr.Fields[0] {
	case "label", "type":
		return 1
	case "date", "time":
		return 2
	default:
		return 3
	}
}
