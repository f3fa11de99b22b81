package storage

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Logger defines the logging surface the jar relies on.
type Logger interface {
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) WarnObj(string, string, interface{}) {}

// Jar is an http.CookieJar whose contents survive restarts via a Store.
// Hosts are hydrated from the store the first time they are touched.
type Jar struct {
	inner  *cookiejar.Jar
	store  Store
	log    Logger
	mu     sync.Mutex
	loaded map[string]bool
}

// NewJar builds a persistent jar over store. A nil store keeps cookies in memory only.
func NewJar(store Store, log Logger) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if store == nil {
		store = noopStore{}
	}
	if log == nil {
		log = noopLogger{}
	}
	return &Jar{inner: inner, store: store, log: log, loaded: make(map[string]bool)}, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.hydrate(u)
	j.inner.SetCookies(u, cookies)
	if err := j.store.Save(u.Hostname(), cookies); err != nil {
		j.log.WarnObj("cookie persist failed", "cookie_store_error", map[string]any{
			"host":  u.Hostname(),
			"error": err.Error(),
		})
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.hydrate(u)
	return j.inner.Cookies(u)
}

func (j *Jar) hydrate(u *url.URL) {
	if u == nil {
		return
	}
	host := strings.ToLower(u.Hostname())

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.loaded[host] {
		return
	}
	j.loaded[host] = true

	cookies, err := j.store.Load(host)
	if err != nil {
		j.log.WarnObj("cookie load failed", "cookie_store_error", map[string]any{
			"host":  host,
			"error": err.Error(),
		})
		return
	}
	if len(cookies) == 0 {
		return
	}
	j.inner.SetCookies(&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, cookies)
}
