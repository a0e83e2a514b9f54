package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func createTestGIF(w, h int) []byte {
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	gif.Encode(&buf, img, nil)
	return buf.Bytes()
}

// padTo appends zero bytes after a valid image until it is exactly size bytes.
func padTo(data []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, data)
	return out
}

func TestInspectAccepted(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		mime     string
	}{
		{"jpeg", createTestJPEG(40, 30), "image/jpeg", "image/jpeg"},
		{"png", createTestPNG(40, 30), "image/png", "image/png"},
		{"gif", createTestGIF(40, 30), "image/gif", "image/gif"},
		{"undeclared", createTestPNG(40, 30), "", "image/png"},
		{"octet-stream", createTestJPEG(40, 30), "application/octet-stream", "image/jpeg"},
	}

	for _, tt := range tests {
		img, err := Inspect(tt.data, tt.declared)
		if err != nil {
			t.Errorf("%s: Inspect: %v", tt.name, err)
			continue
		}
		if img.MIME != tt.mime {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.mime, img.MIME)
		}
		if img.Width != 40 || img.Height != 30 {
			t.Errorf("%s: expected 40x30, got %dx%d", tt.name, img.Width, img.Height)
		}
	}
}

// tinyWebP is a 1x1 lossless WebP.
var tinyWebP = []byte("RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00\x2f\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00")

func TestRegisteredFormats(t *testing.T) {
	tests := map[string][]byte{
		"jpeg": createTestJPEG(4, 4),
		"png":  createTestPNG(4, 4),
		"gif":  createTestGIF(4, 4),
		"webp": tinyWebP,
	}

	for want, data := range tests {
		_, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Errorf("%s: DecodeConfig: %v", want, err)
			continue
		}
		if format != want {
			t.Errorf("expected format %s, got %s", want, format)
		}
	}

	img, err := Inspect(tinyWebP, "image/webp")
	if err != nil {
		t.Fatalf("Inspect webp: %v", err)
	}
	if img.MIME != "image/webp" || img.Width != 1 || img.Height != 1 {
		t.Errorf("unexpected webp inspection %s %dx%d", img.MIME, img.Width, img.Height)
	}
}

func TestInspectRejectsBMP(t *testing.T) {
	bmp := append([]byte("BM"), make([]byte, 64)...)
	if _, err := Inspect(bmp, "image/bmp"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for declared bmp, got %v", err)
	}
	if _, err := Inspect(bmp, ""); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for sniffed bmp, got %v", err)
	}
}

func TestInspectRejectsDeclaredMismatch(t *testing.T) {
	// Valid PNG bytes uploaded with a disallowed declaration.
	if _, err := Inspect(createTestPNG(10, 10), "image/bmp"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestInspectSizeLimit(t *testing.T) {
	exact := padTo(createTestPNG(10, 10), MaxBytes)
	if _, err := Inspect(exact, "image/png"); err != nil {
		t.Errorf("expected PNG of exactly 5 MiB to be accepted, got %v", err)
	}

	over := padTo(createTestPNG(10, 10), MaxBytes+1)
	if _, err := Inspect(over, "image/png"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge for 5 MiB + 1, got %v", err)
	}
}

func TestInspectUndecodable(t *testing.T) {
	tests := map[string][]byte{
		"empty":          nil,
		"text":           []byte("not an image"),
		"truncated png":  createTestPNG(10, 10)[:12],
		"fake webp":      append([]byte("RIFF\x10\x00\x00\x00WEBPVP8 "), make([]byte, 16)...),
		"gif magic only": []byte("GIF89a..."),
	}

	for name, data := range tests {
		_, err := Inspect(data, "")
		if !errors.Is(err, ErrUndecodable) && !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected rejection, got %v", name, err)
		}
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(bytes.NewReader(make([]byte, MaxBytes)))
	if err != nil {
		t.Fatalf("ReadLimited at limit: %v", err)
	}
	if len(data) != MaxBytes {
		t.Errorf("expected %d bytes, got %d", MaxBytes, len(data))
	}

	if _, err := ReadLimited(bytes.NewReader(make([]byte, MaxBytes+1))); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestNormalizeDownscale(t *testing.T) {
	img, err := Inspect(createTestJPEG(400, 200), "image/jpeg")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	out, err := Normalize(img, 100)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if out.MIME != "image/jpeg" {
		t.Errorf("expected format to be preserved, got %s", out.MIME)
	}
	if out.Width != 100 || out.Height != 50 {
		t.Errorf("expected 100x50, got %dx%d", out.Width, out.Height)
	}

	decoded, _, err := image.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("decoded result is %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeKeepsSmallAndGIF(t *testing.T) {
	small, _ := Inspect(createTestPNG(50, 50), "image/png")
	out, err := Normalize(small, 100)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !bytes.Equal(out.Data, small.Data) {
		t.Error("small image should not be re-encoded")
	}

	anim, _ := Inspect(createTestGIF(300, 300), "image/gif")
	out, err = Normalize(anim, 100)
	if err != nil {
		t.Fatalf("Normalize GIF: %v", err)
	}
	if !bytes.Equal(out.Data, anim.Data) {
		t.Error("GIF should be stored unchanged")
	}

	disabled, _ := Inspect(createTestPNG(300, 300), "image/png")
	out, _ = Normalize(disabled, 0)
	if out.Width != 300 {
		t.Error("maxDim 0 should disable downscaling")
	}
}

func TestExt(t *testing.T) {
	tests := []struct {
		mime, filename, want string
	}{
		{"image/jpeg", "photo.JPEG", ".jpeg"},
		{"image/jpeg", "photo.jpg", ".jpg"},
		{"image/jpeg", "photo.png", ".jpg"},
		{"image/png", "noext", ".png"},
		{"image/webp", "cat.webp", ".webp"},
		{"image/gif", "party.gif", ".gif"},
		{"image/bmp", "old.bmp", ".bin"},
	}

	for _, tt := range tests {
		if got := Ext(tt.mime, tt.filename); got != tt.want {
			t.Errorf("Ext(%q, %q) = %q, want %q", tt.mime, tt.filename, got, tt.want)
		}
	}
}

func TestMIMEForExt(t *testing.T) {
	for ext, want := range map[string]string{
		".jpg":  "image/jpeg",
		".JPEG": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
		".exe":  "application/octet-stream",
	} {
		if got := MIMEForExt(ext); got != want {
			t.Errorf("MIMEForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
