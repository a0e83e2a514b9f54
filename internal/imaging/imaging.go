package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxBytes is the largest accepted upload (5 MiB).
const MaxBytes = 5 << 20

// DefaultMaxDimension is the default bound on stored width and height.
const DefaultMaxDimension = 2048

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

var (
	ErrTooLarge    = errors.New("image exceeds 5 MiB")
	ErrUnsupported = errors.New("unsupported image format (only JPEG, PNG, WebP and GIF accepted)")
	ErrUndecodable = errors.New("image data is corrupt or does not match its format")
)

// extensions maps each accepted MIME type to its file extensions, canonical first.
var extensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
}

// Image is a validated upload.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Allowed reports whether mimeType is an accepted image type.
func Allowed(mimeType string) bool {
	_, ok := extensions[mimeType]
	return ok
}

// ReadLimited reads at most MaxBytes from r, failing with ErrTooLarge beyond that.
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Inspect validates image bytes. The declared content type, when present, must
// be accepted; the actual type is sniffed from the bytes (not trusting client
// headers) and the header must decode as that type.
func Inspect(data []byte, declared string) (*Image, error) {
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrUndecodable
	}

	if declared != "" {
		mt, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return nil, ErrUnsupported
		}
		// Generic uploads carry no usable declaration; the bytes decide.
		if mt != "application/octet-stream" && !Allowed(mt) {
			return nil, ErrUnsupported
		}
	}

	detected := http.DetectContentType(data)
	if !Allowed(detected) {
		return nil, ErrUnsupported
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || "image/"+format != detected {
		return nil, ErrUndecodable
	}

	return &Image{
		Data:   data,
		MIME:   detected,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// Normalize downscales JPEG and PNG images so neither dimension exceeds
// maxDim, re-encoding in the same format. GIF (possibly animated) and WebP
// (no encoder available) are returned unchanged, as is everything when
// maxDim <= 0.
func Normalize(img *Image, maxDim int) (*Image, error) {
	if maxDim <= 0 || (img.Width <= maxDim && img.Height <= maxDim) {
		return img, nil
	}
	if img.MIME != "image/jpeg" && img.MIME != "image/png" {
		return img, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	scaled := downscale(decoded, maxDim)

	var buf bytes.Buffer
	switch img.MIME {
	case "image/jpeg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	default:
		err = png.Encode(&buf, scaled)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", img.MIME, err)
	}

	bounds := scaled.Bounds()
	return &Image{
		Data:   buf.Bytes(),
		MIME:   img.MIME,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Ext returns the extension to store an image under: the original filename's
// extension when it matches the MIME type, otherwise the canonical one.
func Ext(mimeType, filename string) string {
	exts, ok := extensions[mimeType]
	if !ok {
		return ".bin"
	}
	orig := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if e == orig {
			return orig
		}
	}
	return exts[0]
}

// MIMEForExt returns the content type to serve a stored image with.
func MIMEForExt(ext string) string {
	ext = strings.ToLower(ext)
	for mt, exts := range extensions {
		for _, e := range exts {
			if e == ext {
				return mt
			}
		}
	}
	return "application/octet-stream"
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
