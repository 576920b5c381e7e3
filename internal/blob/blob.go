// Package blob stores export downloads and uploaded BLAST XML reports.
package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/hitreport/internal/domain"
)

// Driver identifies a blob backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Info describes a stored object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Object is a stored object with its body.
type Object struct {
	Info
	Body []byte
}

// Store is a flat key/value object store. Put overwrites.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (Object, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = fmt.Errorf("blob %w", domain.ErrNotFound)

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	// Root is the filesystem driver directory.
	Root string
	S3   S3Config
}

// Open builds the configured store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFS(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// checkKey rejects keys that could escape the store root.
func checkKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("empty key")
	case strings.Contains(key, ".."):
		return fmt.Errorf("invalid key %q contains '..'", key)
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("invalid absolute key %q", key)
	}
	return nil
}
