// Package archive keeps rendered tally reports in an object store. Three
// drivers are available: a local filesystem tree, an S3 compatible bucket and
// an in-memory map for tests. Objects are write-once.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Driver identifies a store backend.
type Driver string

const (
	// DriverFilesystem stores objects under a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores objects in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps objects in process memory.
	DriverMemory Driver = "memory"
)

var (
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("archive: object already exists")
	// ErrNotFound is returned when a key has no object.
	ErrNotFound = errors.New("archive: object not found")
)

// InvalidKeyError reports a key that cannot name an object.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("archive: invalid key %q: %s", e.Key, e.Reason)
}

// PutOptions carries optional object attributes.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored object.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is the minimal object store the archive needs.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// cleanKey rejects keys that are empty, absolute or escape the store root.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", InvalidKeyError{Key: key, Reason: "empty"}
	}
	if strings.HasPrefix(key, "/") {
		return "", InvalidKeyError{Key: key, Reason: "absolute"}
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", InvalidKeyError{Key: key, Reason: "path traversal"}
		}
	}
	clean := path.Clean(key)
	if clean == "." || strings.HasSuffix(key, "/") {
		return "", InvalidKeyError{Key: key, Reason: "names a directory"}
	}
	return clean, nil
}

func cloneMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
