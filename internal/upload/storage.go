package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Storage is the object store the gateway proxies to.
type Storage interface {
	Store(ctx context.Context, path, contentType string, data []byte) error
	Remove(ctx context.Context, path string) error
}

// HTTPStorage talks to a Bunny-style storage zone: objects are PUT and
// DELETEd at <endpoint>/<zone>/<path> with an AccessKey header.
type HTTPStorage struct {
	Endpoint  string
	Zone      string
	AccessKey string
	Client    *http.Client
}

func NewHTTPStorage(endpoint, zone, accessKey string) *HTTPStorage {
	return &HTTPStorage{
		Endpoint:  endpoint,
		Zone:      zone,
		AccessKey: accessKey,
		Client:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *HTTPStorage) objectURL(path string) string {
	return s.Endpoint + "/" + s.Zone + "/" + path
}

func (s *HTTPStorage) Store(ctx context.Context, path, contentType string, data []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build store request: %w", err)
	}
	req.Header.Set("AccessKey", s.AccessKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("storage request failed (%d): %s", resp.StatusCode, body)
	}
	return nil
}

// Remove deletes an object. A backend 404 counts as success so deletes
// are idempotent.
func (s *HTTPStorage) Remove(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(path), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("AccessKey", s.AccessKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("failed to delete file (%d)", resp.StatusCode)
}
