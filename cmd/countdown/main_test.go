package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/countdown/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("id") != "past" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Countdown not found"}`))
			return
		}
		w.Write([]byte(`{"data":{"id":"past","label":"Launch Day","type":"Launch","date":"2020-01-01","time":"09:00"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPlainFinishedCountdown(t *testing.T) {
	srv := newAPIServer(t)

	var out bytes.Buffer
	if err := run([]string{"-plain", srv.URL + "/c/past"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Launch Day (Launch)", "Wednesday, January 1, 2020 at 09:00", "The countdown is over!"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got:\n%s", want, got)
		}
	}
}

func TestRunBareIDUsesServerFlag(t *testing.T) {
	srv := newAPIServer(t)

	var out bytes.Buffer
	if err := run([]string{"-s", srv.URL, "-p", "past"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "The countdown is over!") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunNotFound(t *testing.T) {
	srv := newAPIServer(t)

	err := run([]string{"-plain", srv.URL + "/c/missing"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestRunArguments(t *testing.T) {
	if err := run(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error without a countdown reference")
	}
	if err := run([]string{"a/b"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for malformed reference")
	}
}
