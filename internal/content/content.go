package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"shopdesk/internal/models"
)

// DefaultLocation is where the data document lives relative to the working
// directory.
const DefaultLocation = "data/data.json"

// maxDocumentSize caps how much of a document we are willing to read.
const maxDocumentSize = 16 << 20

var ErrNotFound = errors.New("data document not found")

// Source is the static content store that holds the shared data document.
type Source interface {
	Fetch(ctx context.Context) (models.Document, error)
	Location() string
}

// Open picks a Source for location: http(s) URLs are fetched over the
// network, anything else is read from disk.
func Open(location string) Source {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultLocation
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location)
	}
	return FileSource{Path: location}
}

type FileSource struct {
	Path string
}

func (s FileSource) Location() string {
	return s.Path
}

func (s FileSource) Fetch(ctx context.Context) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return models.ParseDocument(data)
}

// ReadFile returns the raw bytes of a document on disk.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

type HTTPSource struct {
	URL    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPSource) Location() string {
	return s.URL
}

func (s *HTTPSource) Fetch(ctx context.Context) (models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.URL)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return models.ParseDocument(data)
}
