package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flows-media/studio-backend/internal/apperr"
	"github.com/flows-media/studio-backend/internal/config"
	"go.uber.org/zap"
)

func newShotstackTestClient(host string) *ShotstackClient {
	return NewShotstackClient(&config.Config{
		ShotstackHost:   host,
		ShotstackAPIKey: "test-key",
	}, zap.NewNop())
}

func TestSubmitEditNestedResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/edit/v1/render" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		w.Write([]byte(`{"success":true,"response":{"id":"job-42","status":"queued"}}`))
	}))
	defer srv.Close()

	id, err := newShotstackTestClient(srv.URL).SubmitEdit(context.Background(), []byte(`{"timeline":{}}`))
	if err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if id != "job-42" {
		t.Errorf("job id = %q", id)
	}
}

func TestSubmitEditFlatResponseShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"job-7","status":"queued"}`))
	}))
	defer srv.Close()

	id, err := newShotstackTestClient(srv.URL).SubmitEdit(context.Background(), []byte(`{"timeline":{}}`))
	if err != nil {
		t.Fatalf("SubmitEdit: %v", err)
	}
	if id != "job-7" {
		t.Errorf("job id = %q", id)
	}
}

func TestSubmitEditMissingIDIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := newShotstackTestClient(srv.URL).SubmitEdit(context.Background(), []byte(`{}`))
	if !apperr.IsProvider(err) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("raw body not forwarded: %v", err)
	}
}

func TestGetRenderStatusDefaultsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"id":"job-42"}}`))
	}))
	defer srv.Close()

	st, err := newShotstackTestClient(srv.URL).GetRenderStatus(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("GetRenderStatus: %v", err)
	}
	if st.Status != "unknown" {
		t.Errorf("status = %q, want unknown", st.Status)
	}
}

func TestGetRenderStatusDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/edit/v1/render/job-42") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"response":{"id":"job-42","status":"done","url":"https://cdn.shotstack.io/out.mp4"}}`))
	}))
	defer srv.Close()

	st, err := newShotstackTestClient(srv.URL).GetRenderStatus(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("GetRenderStatus: %v", err)
	}
	if st.Status != "done" || st.URL != "https://cdn.shotstack.io/out.mp4" {
		t.Errorf("status = %+v", st)
	}
}

func TestGetRenderStatusMissingKeyIsConfigError(t *testing.T) {
	client := NewShotstackClient(&config.Config{ShotstackHost: "http://unused"}, zap.NewNop())
	_, err := client.GetRenderStatus(context.Background(), "job-42")
	if !apperr.IsConfig(err) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
}
