package storage

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/acts-bd/acts-client/pkg/csrf"
)

func TestJarPersistsAcrossInstances(t *testing.T) {
	path := t.TempDir() + "/cookies.db"
	u, _ := url.Parse("http://acts.test/dashboard/")

	first, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	jar, err := NewJar(first, nil)
	if err != nil {
		t.Fatalf("NewJar: %v", err)
	}
	jar.SetCookies(u, []*http.Cookie{{Name: csrf.CookieName, Value: "persisted", Path: "/"}})
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	restored, err := NewJar(second, nil)
	if err != nil {
		t.Fatalf("NewJar: %v", err)
	}

	src, err := csrf.NewJarSource(restored, "http://acts.test/api/")
	if err != nil {
		t.Fatalf("NewJarSource: %v", err)
	}
	if got := csrf.FromSource(src); got != "persisted" {
		t.Fatalf("token = %q, want persisted", got)
	}
}

func TestJarWithoutStoreIsInMemory(t *testing.T) {
	jar, err := NewJar(nil, nil)
	if err != nil {
		t.Fatalf("NewJar: %v", err)
	}
	u, _ := url.Parse("http://acts.test/")
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1"}})
	if got := jar.Cookies(u); len(got) != 1 || got[0].Value != "1" {
		t.Fatalf("cookies = %#v", got)
	}
}
