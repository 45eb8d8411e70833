package upload_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comichub/internal/upload"
)

func TestHTTPStorageStore(t *testing.T) {
	var gotMethod, gotPath, gotKey, gotType string
	var gotBody []byte

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("AccessKey")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	s := upload.NewHTTPStorage(backend.URL, "comics-zone", "zone-key")
	require.NoError(t, s.Store(context.Background(), "covers/a.webp", "image/webp", []byte("bytes")))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/comics-zone/covers/a.webp", gotPath)
	assert.Equal(t, "zone-key", gotKey)
	assert.Equal(t, "image/webp", gotType)
	assert.Equal(t, []byte("bytes"), gotBody)
}

func TestHTTPStorageStoreDefaultsContentType(t *testing.T) {
	var gotType string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer backend.Close()

	s := upload.NewHTTPStorage(backend.URL, "zone", "key")
	require.NoError(t, s.Store(context.Background(), "a.webp", "", nil))
	assert.Equal(t, "application/octet-stream", gotType)
}

func TestHTTPStorageStoreSurfacesBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer backend.Close()

	s := upload.NewHTTPStorage(backend.URL, "zone", "bad-key")
	err := s.Store(context.Background(), "a.webp", "image/webp", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestHTTPStorageRemoveIdempotent(t *testing.T) {
	status := http.StatusOK
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(status)
	}))
	defer backend.Close()

	s := upload.NewHTTPStorage(backend.URL, "zone", "key")

	require.NoError(t, s.Remove(context.Background(), "covers/a.webp"))

	// an already-gone object is not an error
	status = http.StatusNotFound
	require.NoError(t, s.Remove(context.Background(), "covers/a.webp"))

	status = http.StatusInternalServerError
	assert.Error(t, s.Remove(context.Background(), "covers/a.webp"))
}
