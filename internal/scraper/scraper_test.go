package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchProfileFromMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Ada Lovelace - Analytical Engine Programmer | ProSite</title>
			<meta property="og:description" content="Wrote the first published algorithm.">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	p := New(srv.Client(), 5*time.Second).FetchProfile(context.Background(), srv.URL+"/in/ada")

	if p.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q", p.FullName)
	}
	if p.Headline != "Analytical Engine Programmer" {
		t.Errorf("Headline = %q", p.Headline)
	}
	if p.About != "Wrote the first published algorithm." {
		t.Errorf("About = %q", p.About)
	}
	if p.SourceURL != srv.URL+"/in/ada" {
		t.Errorf("SourceURL = %q", p.SourceURL)
	}
}

func TestFetchProfilePrefersOgTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Sign in | ProSite</title>
			<meta property="og:title" content="Grace Hopper - Rear Admiral">
		</head></html>`))
	}))
	defer srv.Close()

	p := New(srv.Client(), 5*time.Second).FetchProfile(context.Background(), srv.URL+"/in/grace")
	if p.FullName != "Grace Hopper" {
		t.Errorf("FullName = %q", p.FullName)
	}
}

func TestFetchProfileNon2xxFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusForbidden)
	}))
	defer srv.Close()

	p := New(srv.Client(), 5*time.Second).FetchProfile(context.Background(), srv.URL+"/in/blocked")

	if p.FullName != "Demo User (blocked)" {
		t.Errorf("FullName = %q", p.FullName)
	}
	if !strings.Contains(p.About, "status 403") {
		t.Errorf("About = %q", p.About)
	}
	if p.SourceURL != srv.URL+"/in/blocked" {
		t.Errorf("SourceURL = %q", p.SourceURL)
	}
}

func TestFetchProfileBadURLFallsBack(t *testing.T) {
	p := New(nil, time.Second).FetchProfile(context.Background(), "not a url")
	if !strings.HasPrefix(p.FullName, "Demo User (") {
		t.Errorf("FullName = %q", p.FullName)
	}
}

func TestFetchProfileTimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := New(srv.Client(), 20*time.Millisecond).FetchProfile(context.Background(), srv.URL+"/in/slow")
	if p.FullName != "Demo User (slow)" {
		t.Errorf("FullName = %q", p.FullName)
	}
}

func TestUsernameFromURL(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://example.com/in/jane-doe/", "jane-doe"},
		{"https://example.com/", "unknown"},
		{"https://example.com/profile/jdoe", "jdoe"},
	}
	for _, c := range cases {
		if got := usernameFromURL(c.url); got != c.want {
			t.Errorf("usernameFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}
