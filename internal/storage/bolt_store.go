package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	cookieBucket = "cookies"
	keySep       = "\x00"
)

// cookieRecord is the persisted form of a cookie.
type cookieRecord struct {
	Name      string        `json:"name"`
	Value     string        `json:"value"`
	Path      string        `json:"path,omitempty"`
	Domain    string        `json:"domain,omitempty"`
	Secure    bool          `json:"secure,omitempty"`
	HTTPOnly  bool          `json:"http_only,omitempty"`
	SameSite  http.SameSite `json:"same_site,omitempty"`
	ExpiresAt int64         `json:"expires_at"`
}

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	sessionTTL      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cookieBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		sessionTTL:      opts.SessionTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Load returns the unexpired cookies stored for host, dropping expired ones.
func (b *boltStore) Load(host string) ([]*http.Cookie, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	prefix := hostPrefix(host)
	var out []*http.Cookie
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(cookieBucket))
		if bucket == nil {
			return fmt.Errorf("cookie bucket missing")
		}

		var stale [][]byte
		cursor := bucket.Cursor()
		for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
			rec, ok := decodeRecord(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				stale = append(stale, append([]byte(nil), k...))
				continue
			}
			out = append(out, rec.cookie())
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// Save persists cookies for host. Cookies that are already expired or carry a
// negative Max-Age delete any stored copy.
func (b *boltStore) Save(host string, cookies []*http.Cookie) error {
	if b == nil || b.db == nil || len(cookies) == 0 {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(cookieBucket))
		if bucket == nil {
			return fmt.Errorf("cookie bucket missing")
		}
		for _, c := range cookies {
			if c == nil || c.Name == "" {
				continue
			}
			key := cookieKey(host, c)
			expiry := b.expiryFor(c, now)
			if !expiry.After(now) {
				if err := bucket.Delete(key); err != nil {
					return err
				}
				continue
			}
			raw, err := json.Marshal(newRecord(c, expiry))
			if err != nil {
				return fmt.Errorf("encode cookie %q: %w", c.Name, err)
			}
			if err := bucket.Put(key, raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltStore) expiryFor(c *http.Cookie, now time.Time) time.Time {
	switch {
	case c.MaxAge < 0:
		return now
	case c.MaxAge > 0:
		return now.Add(time.Duration(c.MaxAge) * time.Second)
	case !c.Expires.IsZero():
		return c.Expires
	default:
		return now.Add(b.sessionTTL)
	}
}

// maybeCleanupExpired removes expired cookies on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(cookieBucket))
		if bucket == nil {
			return fmt.Errorf("cookie bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			rec, ok := decodeRecord(v)
			if !ok || !time.Unix(rec.ExpiresAt, 0).After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func hostPrefix(host string) []byte {
	return []byte(strings.ToLower(host) + keySep)
}

func cookieKey(host string, c *http.Cookie) []byte {
	return append(hostPrefix(host), []byte(c.Name+keySep+c.Path)...)
}

func newRecord(c *http.Cookie, expiry time.Time) cookieRecord {
	return cookieRecord{
		Name:      c.Name,
		Value:     c.Value,
		Path:      c.Path,
		Domain:    c.Domain,
		Secure:    c.Secure,
		HTTPOnly:  c.HttpOnly,
		SameSite:  c.SameSite,
		ExpiresAt: expiry.Unix(),
	}
}

func (r cookieRecord) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     r.Name,
		Value:    r.Value,
		Path:     r.Path,
		Domain:   r.Domain,
		Secure:   r.Secure,
		HttpOnly: r.HTTPOnly,
		SameSite: r.SameSite,
		Expires:  time.Unix(r.ExpiresAt, 0),
	}
}

// decodeRecord decodes a stored cookie record.
func decodeRecord(value []byte) (cookieRecord, bool) {
	var rec cookieRecord
	if err := json.Unmarshal(value, &rec); err != nil {
		return cookieRecord{}, false
	}
	if rec.Name == "" || rec.ExpiresAt <= 0 {
		return cookieRecord{}, false
	}
	return rec, true
}
