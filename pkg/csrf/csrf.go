package csrf

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	// CookieName is the cookie Django stores the CSRF secret under.
	CookieName = "csrftoken"
	// HeaderName is the request header the server expects the token echoed in.
	HeaderName = "X-CSRFToken"
)

// Source exposes the ambient cookie string (`name=value; name=value`).
type Source interface {
	CookieHeader() string
}

// Token returns the value of the first csrftoken cookie in the header, or "" when absent.
func Token(cookieHeader string) string {
	return Lookup(cookieHeader, CookieName)
}

// Lookup returns the value of the first cookie called name, scanning in order.
func Lookup(cookieHeader, name string) string {
	for _, pair := range strings.Split(cookieHeader, ";") {
		k, v, _ := strings.Cut(strings.TrimSpace(pair), "=")
		if k == name {
			return v
		}
	}
	return ""
}

// FromSource reads the token from src; a nil source yields "".
func FromSource(src Source) string {
	if src == nil {
		return ""
	}
	return Token(src.CookieHeader())
}

// HeaderSource is a fixed cookie string, handy for tests and scripted callers.
type HeaderSource string

func (h HeaderSource) CookieHeader() string { return string(h) }

// JarSource reads the cookies an http.CookieJar would send to URL.
type JarSource struct {
	Jar http.CookieJar
	URL *url.URL
}

// NewJarSource builds a JarSource for rawURL.
func NewJarSource(jar http.CookieJar, rawURL string) (*JarSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &JarSource{Jar: jar, URL: u}, nil
}

// CookieHeader renders the jar's cookies for URL in request-header form.
func (s *JarSource) CookieHeader() string {
	if s == nil || s.Jar == nil || s.URL == nil {
		return ""
	}
	cookies := s.Jar.Cookies(s.URL)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
