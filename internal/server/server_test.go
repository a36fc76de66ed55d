package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopdesk/internal/content"
	"shopdesk/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServeDocument(t *testing.T) {
	t.Parallel()

	s := New(0, quietLogger())
	doc := []byte(`{"categories":[{"id":1,"name":"Drinks","description":"Cold"}]}`)
	if err := s.SetDocument(doc); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + DocumentPath)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != string(doc) {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}
	etag := resp.Header.Get("ETag")
	if etag != ETag(doc) {
		t.Fatalf("ETag = %q, want %q", etag, ETag(doc))
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+DocumentPath, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}

	fetched, err := content.Open(ts.URL + DocumentPath).Fetch(context.Background())
	if err != nil {
		t.Fatalf("content fetch: %v", err)
	}
	if got := fetched.Collection(models.CollectionCategories); len(got) != 1 {
		t.Fatalf("expected 1 category via HTTP source, got %d", len(got))
	}
}

func TestServeWithoutDocument(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(New(0, quietLogger()).Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + DocumentPath)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+DocumentPath, "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestSetDocumentRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	if err := New(0, quietLogger()).SetDocument([]byte(`[1,2`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	s := New(0, quietLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Port() == 0 {
		t.Fatalf("expected bound port")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
