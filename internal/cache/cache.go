// Package cache keeps converted documents keyed by the content hash of the
// uploaded bytes, so re-uploading the same file skips the conversion.
package cache

import (
	"context"
	"fmt"

	"github.com/kpauljoseph/labelsplit/internal/config"
)

type Entry struct {
	// Filename is the name the document was uploaded under.
	Filename         string   `json:"filename"`
	PDF              []byte   `json:"pdf"`
	SourcePages      int      `json:"source_pages"`
	OutputPages      int      `json:"output_pages"`
	Previews         [][]byte `json:"previews"`
	PreviewTruncated bool     `json:"preview_truncated"`
}

type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, entry *Entry) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// New builds the backend selected in cfg.
func New(cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return NewMemory(cfg.Cache.MaxEntries), nil
	case config.CacheBackendRedis:
		return NewRedis(cfg.Cache.RedisURL, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
