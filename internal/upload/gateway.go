package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrFileTooLarge = fmt.Errorf("file too large (max %d bytes)", maxUploadSize)
	ErrBadExtension = errors.New("file type not allowed")
)

// Gateway validates uploads before anything reaches the storage backend.
type Gateway struct {
	Storage Storage
	CDNHost string
}

func NewGateway(storage Storage, cdnHost string) *Gateway {
	return &Gateway{Storage: storage, CDNHost: cdnHost}
}

// NormalizePath strips leading slashes; the remainder must be a plain
// relative path with no parent-directory segments.
func NormalizePath(p string) (string, error) {
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}

// Store validates and proxies a binary to the backend, returning the
// public CDN URL. The extension comes from the filename, falling back to
// the destination path.
func (g *Gateway) Store(ctx context.Context, filename, destPath, contentType string, data []byte) (string, error) {
	normalized, err := NormalizePath(destPath)
	if err != nil {
		return "", err
	}
	if len(data) > maxUploadSize {
		return "", ErrFileTooLarge
	}

	name := filename
	if name == "" {
		name = normalized
	}
	if !allowedExtensions[strings.ToLower(path.Ext(name))] {
		return "", ErrBadExtension
	}

	if err := g.Storage.Store(ctx, normalized, contentType, data); err != nil {
		return "", err
	}
	return "https://" + g.CDNHost + "/" + normalized, nil
}

func (g *Gateway) Remove(ctx context.Context, destPath string) error {
	normalized, err := NormalizePath(destPath)
	if err != nil {
		return err
	}
	return g.Storage.Remove(ctx, normalized)
}
