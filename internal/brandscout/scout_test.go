package brandscout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func TestFetchPrefersOpenGraphTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Fallback Title</title>
			<meta property="og:title" content="Peak Coffee">
			<meta property="og:description" content="Small-batch beans.">
			<meta name="description" content="Generic description">
			<meta property="og:image" content="/assets/hero.png">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	profile, err := NewScout(5000, 0, zap.NewNop()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if profile.Title != "Peak Coffee" {
		t.Errorf("title = %q", profile.Title)
	}
	if profile.Description != "Small-batch beans." {
		t.Errorf("description = %q", profile.Description)
	}
	if profile.ImageURL != srv.URL+"/assets/hero.png" {
		t.Errorf("image url = %q, want resolved against site", profile.ImageURL)
	}
}

func TestFetchFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title> Peak Coffee </title></head><body></body></html>`))
	}))
	defer srv.Close()

	profile, err := NewScout(5000, 0, zap.NewNop()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if profile.Title != "Peak Coffee" {
		t.Errorf("title = %q, want trimmed title tag", profile.Title)
	}
	if profile.ImageURL != "" {
		t.Errorf("image url = %q, want empty", profile.ImageURL)
	}
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	scout := NewScout(5000, 0, zap.NewNop())
	for _, raw := range []string{"ftp://example.com", "not a url", "https://"} {
		if _, err := scout.Fetch(context.Background(), raw); err == nil {
			t.Errorf("Fetch(%q) accepted", raw)
		}
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<html><head><title>Recovered</title></head></html>`))
	}))
	defer srv.Close()

	profile, err := NewScout(5000, 2, zap.NewNop()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if profile.Title != "Recovered" {
		t.Errorf("title = %q", profile.Title)
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want retry", calls.Load())
	}
}
