package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tweetsearch/internal/config"
	"tweetsearch/internal/metrics"
	tu "tweetsearch/internal/testutil"
)

type testServer struct {
	srv     *Server
	store   *tu.MemoryStore
	fetcher *tu.FakeFetcher
}

func newTestServer(t *testing.T, adminKey string) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env:         "test",
		SiteTitle:   "Tweet Search",
		AdminAPIKey: adminKey,
	}

	store := tu.NewMemoryStore()
	fetcher := &tu.FakeFetcher{Results: []string{"first tweet", "second tweet"}}
	reg := prometheus.NewRegistry()

	srv := New(cfg, zap.NewNop())
	srv.RegisterRoutes(store, fetcher, metrics.New(reg, store, zap.NewNop()), reg)

	return &testServer{srv: srv, store: store, fetcher: fetcher}
}

func (ts *testServer) do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()
	resp, err := ts.srv.App.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func (ts *testServer) search(t *testing.T, phrase string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"phrase": {phrase}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(t, req)
}

func TestServer_SearchFlow(t *testing.T) {
	ts := newTestServer(t, "")

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("GET / status = %d, want 200", status)
	}
	if !strings.Contains(body, "<title>Tweet Search</title>") {
		t.Error("GET / not rendered inside the layout")
	}

	status, body = ts.search(t, "Garden")
	if status != fiber.StatusOK {
		t.Fatalf("POST / status = %d, want 200", status)
	}
	if !strings.Contains(body, "first tweet") || !strings.Contains(body, "second tweet") {
		t.Error("results page missing tweets")
	}

	ts.search(t, "garden")

	record, err := ts.store.GetSearchRecordByPhrase(context.Background(), "garden")
	if err != nil {
		t.Fatalf("GetSearchRecordByPhrase() error = %v", err)
	}
	if record.Count != 2 {
		t.Errorf("count = %d, want 2", record.Count)
	}
	if got := ts.fetcher.CallCount(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestServer_EmptySubmission(t *testing.T) {
	ts := newTestServer(t, "")

	status, body := ts.search(t, "")
	if status != fiber.StatusOK {
		t.Fatalf("POST / status = %d, want 200", status)
	}
	if !strings.Contains(body, "This field is required.") {
		t.Error("form missing the required field error")
	}
	if ts.store.Writes != 0 || ts.fetcher.CallCount() != 0 {
		t.Errorf("empty submission had side effects: writes = %d, fetches = %d", ts.store.Writes, ts.fetcher.CallCount())
	}
}

func TestServer_History(t *testing.T) {
	ts := newTestServer(t, "")
	ts.search(t, "alpha")
	ts.search(t, "beta")

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/searchhistory/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("GET /searchhistory/ status = %d, want 200", status)
	}
	alpha, beta := strings.Index(body, "alpha"), strings.Index(body, "beta")
	if alpha < 0 || beta < 0 {
		t.Fatal("history missing searched phrases")
	}
	if beta > alpha {
		t.Error("history is not ordered most recent first")
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := newTestServer(t, "")

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if !strings.Contains(body, "<title>Error - Tweet Search</title>") {
		t.Error("404 not rendered with the error template")
	}
}

func TestServer_StaticFromAnyDirectory(t *testing.T) {
	ts := newTestServer(t, "")
	t.Chdir(t.TempDir())

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if status != fiber.StatusOK {
		t.Fatalf("GET /static/style.css status = %d, want 200", status)
	}
	if !strings.Contains(body, "body") {
		t.Error("stylesheet body is empty")
	}
}

func TestServer_Probes(t *testing.T) {
	ts := newTestServer(t, "")

	for _, path := range []string{"/healthz", "/readyz"} {
		if status, _ := ts.do(t, httptest.NewRequest(http.MethodGet, path, nil)); status != fiber.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, status)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, "")
	ts.search(t, "garden")
	ts.search(t, "")

	status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if status != fiber.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", status)
	}

	want := []string{
		`tweetsearch_phrase_searches_total{phrase="garden"} 1`,
		`tweetsearch_upstream_requests_total{outcome="success"} 1`,
		`tweetsearch_form_submissions_total{result="invalid"} 1`,
		`tweetsearch_form_submissions_total{result="valid"} 1`,
	}
	for _, line := range want {
		if !strings.Contains(body, line) {
			t.Errorf("/metrics missing %q", line)
		}
	}
}

func TestServer_AdminAPI(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		ts := newTestServer(t, "")
		req := httptest.NewRequest(http.MethodGet, "/api/admin/records", nil)
		req.Header.Set("Authorization", "Bearer anything")
		if status, _ := ts.do(t, req); status != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("requires key", func(t *testing.T) {
		ts := newTestServer(t, "secret")
		status, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/records", nil))
		if status != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
		if !strings.Contains(body, `"unauthorized"`) {
			t.Errorf("body = %s, want JSON error", body)
		}
	})

	t.Run("lists with key", func(t *testing.T) {
		ts := newTestServer(t, "secret")
		ts.search(t, "garden")

		req := httptest.NewRequest(http.MethodGet, "/api/admin/records", nil)
		req.Header.Set("Authorization", "Bearer secret")
		status, body := ts.do(t, req)
		if status != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if !strings.Contains(body, `"phrase":"garden"`) {
			t.Errorf("body = %s, want garden record", body)
		}
	})
}
