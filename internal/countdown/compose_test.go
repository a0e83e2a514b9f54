package countdown

import (
	"errors"
	"testing"
	"time"

	"github.com/erazemk/timely/internal/model"
)

var testZone = time.FixedZone("UTC+2", 2*60*60)

func TestComposeMidnight(t *testing.T) {
	got, err := Compose("2026-03-01", "", testZone)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, testZone)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComposeWithTime(t *testing.T) {
	got, err := Compose("2026-03-01", "14:30", testZone)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := time.Date(2026, time.March, 1, 14, 30, 0, 0, testZone)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComposeDefaultsToLocal(t *testing.T) {
	got, err := Compose("2026-03-01", "", nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected local midnight %v, got %v", want, got)
	}
}

func TestComposeInvalidTime(t *testing.T) {
	tests := []string{
		"24:99",
		"24:00",
		"23:60",
		"abc",
		"9:30",
		"09:3",
		"09-30",
		"+1:30",
		"09:30:00",
		" 09:30",
	}

	for _, clock := range tests {
		_, err := Compose("2026-03-01", clock, testZone)
		if !errors.Is(err, ErrInvalidTimeFormat) {
			t.Errorf("Compose(_, %q) error = %v, want ErrInvalidTimeFormat", clock, err)
		}
	}
}

func TestComposeInvalidDate(t *testing.T) {
	tests := []string{
		"",
		"2026-13-01",
		"2026-02-30",
		"01/03/2026",
		"2026-3-1",
		"tomorrow",
		"2026-03-01T10:00:00Z",
	}

	for _, date := range tests {
		_, err := Compose(date, "10:00", testZone)
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("Compose(%q, _) error = %v, want ErrInvalidDateFormat", date, err)
		}
	}
}

func TestComposeBoundaryTimes(t *testing.T) {
	tests := []struct {
		clock        string
		hour, minute int
	}{
		{"00:00", 0, 0},
		{"23:59", 23, 59},
		{"07:05", 7, 5},
	}

	for _, tt := range tests {
		got, err := Compose("2026-12-31", tt.clock, testZone)
		if err != nil {
			t.Errorf("Compose(_, %q): %v", tt.clock, err)
			continue
		}
		if got.Hour() != tt.hour || got.Minute() != tt.minute || got.Second() != 0 {
			t.Errorf("Compose(_, %q) = %v", tt.clock, got)
		}
	}
}

func TestTarget(t *testing.T) {
	c := &model.Countdown{Date: "2026-03-01", Time: "08:15"}
	got, err := Target(c, time.UTC)
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	want := time.Date(2026, time.March, 1, 8, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFormatTarget(t *testing.T) {
	if got := FormatTarget("2026-03-01", ""); got != "Sunday, March 1, 2026" {
		t.Errorf("unexpected format without time: %q", got)
	}
	if got := FormatTarget("2026-03-01", "14:30"); got != "Sunday, March 1, 2026 at 14:30" {
		t.Errorf("unexpected format with time: %q", got)
	}
	if got := FormatTarget("not-a-date", ""); got != "not-a-date" {
		t.Errorf("expected invalid date to pass through, got %q", got)
	}
}
