package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageBucket persists uploaded event images on disk under a base directory
// and maps stored names onto public URLs the client can embed directly.
type ImageBucket struct {
	baseDir       string
	publicBaseURL string
}

// NewImageBucket ensures the base directory exists and returns a handle.
func NewImageBucket(baseDir, publicBaseURL string) (*ImageBucket, error) {
	if baseDir == "" {
		baseDir = "./event-images"
	}
	if publicBaseURL == "" {
		publicBaseURL = "/event-images"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &ImageBucket{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Save writes the given bytes under the base dir and returns the public URL.
func (b *ImageBucket) Save(filename string, data []byte) (string, error) {
	path := b.resolve(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return b.PublicURL(filename), nil
}

// SaveStream copies from reader into the target file and returns the public URL.
func (b *ImageBucket) SaveStream(filename string, r io.Reader) (string, error) {
	path := b.resolve(filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write image stream: %w", err)
	}
	return b.PublicURL(filename), nil
}

// Delete removes a stored image if present.
func (b *ImageBucket) Delete(filename string) error {
	if err := os.Remove(b.resolve(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// PublicURL returns the URL under which a stored file is served.
func (b *ImageBucket) PublicURL(filename string) string {
	return b.publicBaseURL + "/" + url.PathEscape(filename)
}

// FilenameFromURL reverses PublicURL; it returns "" for URLs outside the bucket.
func (b *ImageBucket) FilenameFromURL(publicURL string) string {
	if !strings.HasPrefix(publicURL, b.publicBaseURL+"/") {
		return ""
	}
	name, err := url.PathUnescape(strings.TrimPrefix(publicURL, b.publicBaseURL+"/"))
	if err != nil {
		return ""
	}
	return name
}

// Dir exposes the base directory, used to mount the static file route.
func (b *ImageBucket) Dir() string {
	return b.baseDir
}

// ListOlderThan returns stored filenames whose mtime is before now-minAge.
// The sweep job uses it to find candidate orphans.
func (b *ImageBucket) ListOlderThan(minAge time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-minAge)
	var names []string
	entries, err := os.ReadDir(b.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		if info.ModTime().Before(cutoff) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (b *ImageBucket) resolve(filename string) string {
	return filepath.Join(b.baseDir, filepath.Base(filename))
}
