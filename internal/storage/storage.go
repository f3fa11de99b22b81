package storage

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Package storage persists the client's cookie jar between runs.

// Store keeps cookies per host.
type Store interface {
	Close() error
	Load(host string) ([]*http.Cookie, error)
	Save(host string, cookies []*http.Cookie) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	// SessionTTL bounds cookies that carry no expiry of their own.
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSessionTTL      = 12 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled", "memory":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                        { return nil }
func (noopStore) Load(string) ([]*http.Cookie, error) { return nil, nil }
func (noopStore) Save(string, []*http.Cookie) error   { return nil }
