package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func testRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sftp_test_decodes_total",
		Help: "Decodes seen by the test.",
	})
	reg.MustRegister(c)
	c.Add(3)
	return reg
}

func TestRouter_Metrics(t *testing.T) {
	reg := testRegistry(t)
	router := NewRouter(Info{}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "sftp_test_decodes_total 3") {
		t.Errorf("Expected counter in metrics output, got:\n%s", body)
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	router := NewRouter(Info{}, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_MetricsRejectsPost(t *testing.T) {
	router := NewRouter(Info{}, http.NotFoundHandler())

	req := httptest.NewRequest("POST", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	router := NewRouter(Info{Version: "1.2.3", Session: "abc"}, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", resp.Status)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected Data to be a map, got %T", resp.Data)
	}
	if data["service"] != "sftpwire" {
		t.Errorf("Expected service 'sftpwire', got '%v'", data["service"])
	}
	if data["version"] != "1.2.3" || data["session"] != "abc" {
		t.Errorf("Unexpected identity in %v", data)
	}
}

func TestRouter_RootRedirects(t *testing.T) {
	router := NewRouter(Info{}, nil)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Errorf("Expected status %d, got %d", http.StatusTemporaryRedirect, w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/health" {
		t.Errorf("Expected redirect to /health, got %q", loc)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	router := NewRouter(Info{}, boom)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestServer_StartServesAndStops(t *testing.T) {
	reg := testRegistry(t)
	srv := NewServer(Config{}, NewRouter(Info{}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if srv.Port() == 0 {
		t.Fatal("Expected a bound port")
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", srv.Port()))
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !strings.Contains(string(body), "sftp_test_decodes_total") {
		t.Errorf("Expected counter in metrics output")
	}

	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("Second Stop should be a no-op, got %v", err)
	}
}

func TestServer_StartPortInUse(t *testing.T) {
	first := NewServer(Config{}, NewRouter(Info{}, nil))
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop(context.Background())

	second := NewServer(Config{Port: first.Port()}, NewRouter(Info{}, nil))
	if err := second.Start(context.Background()); err == nil {
		_ = second.Stop(context.Background())
		t.Fatal("Expected bind error for a port in use")
	}
}
