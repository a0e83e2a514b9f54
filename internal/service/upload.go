package service

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/erazemk/timely/internal/imaging"
)

// UploadFromForm reads an uploaded form file. Files over the size limit are
// rejected as invalid images without reading them fully.
func UploadFromForm(fh *multipart.FileHeader) (*ImageUpload, error) {
	if fh.Size > imaging.MaxBytes {
		return nil, tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	return ReadUpload(fh.Filename, fh.Header.Get("Content-Type"), f)
}

// ReadUpload reads an image from r, stopping one byte past the size limit.
func ReadUpload(filename, contentType string, r io.Reader) (*ImageUpload, error) {
	data, err := imaging.ReadLimited(r)
	if err != nil {
		return nil, invalid(fmt.Errorf("%w: %w", ErrInvalidImage, err), err.Error(), "image")
	}

	return &ImageUpload{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func tooLarge() error {
	return invalid(fmt.Errorf("%w: %w", ErrInvalidImage, imaging.ErrTooLarge), imaging.ErrTooLarge.Error(), "image")
}
