package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/history"
	"github.com/siteguard/siteguard/internal/server"
	"github.com/siteguard/siteguard/internal/testutil"
)

const phishyHTML = `<html><head>
	<meta http-equiv="refresh" content="0;url=/next">
</head><body>
	<script>eval(atob("ZG8="))</script>
	<a href="http://203.0.113.9/pay">claim</a>
	<form action="http://pay.test/submit"></form>
	<iframe src="/t" width="0"></iframe>
</body></html>`

func newTestServer(t *testing.T, wc *testutil.DummyWebClient) *server.Server {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")
	cfg.WebClient = wc
	cfg.Logger = &testutil.DummyLogger{}

	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func get(t *testing.T, s *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleIndex(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &testutil.DummyWebClient{})
	rec := get(t, s, "/")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SiteGuard") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestEmbeddingHeaders(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &testutil.DummyWebClient{})

	// Every response carries the frame-friendly policy, errors included.
	for _, target := range []string{"/", "/api/scan", "/metrics"} {
		rec := get(t, s, target)
		h := rec.Header()
		if h.Get("X-Frame-Options") != "ALLOWALL" {
			t.Errorf("%s: X-Frame-Options = %q", target, h.Get("X-Frame-Options"))
		}
		if h.Get("Content-Security-Policy") != "frame-ancestors *" {
			t.Errorf("%s: CSP = %q", target, h.Get("Content-Security-Policy"))
		}
		if h.Get("Cache-Control") != "no-store" {
			t.Errorf("%s: Cache-Control = %q", target, h.Get("Cache-Control"))
		}
		if h.Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s: CORS origin = %q", target, h.Get("Access-Control-Allow-Origin"))
		}
	}
}

func TestHandleScan(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		Pages: map[string]string{"http://bad.test/": phishyHTML},
	}
	s := newTestServer(t, wc)

	rec := get(t, s, "/api/scan?url=http://bad.test/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp server.ScanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	// meta refresh 10 + suspicious JS 20 + IP link 10 + form 20 + iframe 10.
	if resp.Score != 70 {
		t.Errorf("Score = %d, want 70", resp.Score)
	}
	if resp.Level != assessor.LevelHigh {
		t.Errorf("Level = %q, want High", resp.Level)
	}
	if len(resp.Issues) != 5 {
		t.Errorf("Issues = %v, want 5 findings", resp.Issues)
	}
	if resp.Features == nil || !resp.Features.MetaRefresh {
		t.Errorf("Features = %+v", resp.Features)
	}
	if resp.ScanID == "" {
		t.Error("scan not recorded to history")
	}
	if resp.Changed {
		t.Error("first scan of a URL reported as changed")
	}
	if resp.URL != "http://bad.test/" {
		t.Errorf("URL = %q", resp.URL)
	}
}

func TestHandleScan_MissingURL(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &testutil.DummyWebClient{})
	rec := get(t, s, "/api/scan")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var e server.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if e.Error != "missing url" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestHandleScan_FetchError(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"http://down.test/": true},
	}
	s := newTestServer(t, wc)

	rec := get(t, s, "/api/scan?url=http://down.test/")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	var e server.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if e.Error != "fetch_error" {
		t.Errorf("error = %q", e.Error)
	}
	if e.Detail == "" {
		t.Error("detail missing from fetch error")
	}
}

func TestHandleSandbox(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		Pages: map[string]string{
			"http://shop.test/": `<html><head><meta http-equiv="Content-Security-Policy" content="frame-ancestors 'none'"></head><body><a href="cart">cart</a></body></html>`,
		},
	}
	s := newTestServer(t, wc)

	rec := get(t, s, "/sandbox?url=http://shop.test/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `<base href="http://shop.test/"`) {
		t.Errorf("base tag missing from %q", body)
	}
	if strings.Contains(strings.ToLower(body), "content-security-policy") {
		t.Error("CSP meta not stripped")
	}
	if !strings.Contains(body, `href="cart"`) {
		t.Error("page content lost")
	}
}

func TestHandleSandbox_Errors(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		FailURLs: map[string]bool{"http://down.test/": true},
	}
	s := newTestServer(t, wc)

	rec := get(t, s, "/sandbox")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url: status = %d, want 400", rec.Code)
	}

	rec = get(t, s, "/sandbox?url=http://down.test/")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("fetch failure: status = %d, want 502", rec.Code)
	}
}

func TestScanHistoryEndpoints(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		Pages: map[string]string{"http://site.test/": "<html><body>v1</body></html>"},
	}
	s := newTestServer(t, wc)

	// Two scans of the same page.
	var first server.ScanResponse
	rec := get(t, s, "/api/scan?url=http://site.test/")
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("decoding first scan: %v", err)
	}
	get(t, s, "/api/scan?url=http://site.test/")

	rec = get(t, s, "/api/scans?url=http://site.test/")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var scans []history.Scan
	if err := json.NewDecoder(rec.Body).Decode(&scans); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("listed %d scans, want 2", len(scans))
	}

	rec = get(t, s, "/api/scans/"+first.ScanID)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var stored history.Scan
	if err := json.NewDecoder(rec.Body).Decode(&stored); err != nil {
		t.Fatalf("decoding scan: %v", err)
	}
	if stored.ID != first.ScanID || stored.URL != "http://site.test/" {
		t.Errorf("stored = %+v", stored)
	}

	rec = get(t, s, "/api/scans?url=")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("list without url: status = %d, want 400", rec.Code)
	}

	rec = get(t, s, "/api/scans/no-such-id")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown scan: status = %d, want 404", rec.Code)
	}

	rec = get(t, s, "/api/scans/no-such-id/diff")
	if rec.Code != http.StatusNotFound {
		t.Errorf("diff of unknown scan: status = %d, want 404", rec.Code)
	}

	// The oldest scan has no predecessor.
	oldest := scans[len(scans)-1]
	rec = get(t, s, "/api/scans/"+oldest.ID+"/diff")
	if rec.Code != http.StatusNotFound {
		t.Errorf("diff without previous: status = %d, want 404", rec.Code)
	}
}

// seedHistory records scans directly into the history file before the server
// opens it, so tests control the stored timestamps.
func seedHistory(t *testing.T, path string, scans ...*history.Scan) {
	t.Helper()
	store, err := history.Open(path, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("seeding history: %v", err)
	}
	defer store.Close()
	for _, sc := range scans {
		if _, err := store.Record(context.Background(), sc); err != nil {
			t.Fatalf("seeding scan: %v", err)
		}
	}
}

func TestHandleScan_ChangedFlag(t *testing.T) {
	t.Parallel()

	historyPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, historyPath, &history.Scan{
		URL:       "http://site.test/",
		Level:     "Low",
		Issues:    []string{},
		Features:  assessor.NewFeatureVector(),
		HTML:      []byte("<html><body>old version</body></html>"),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})

	cfg := server.DefaultConfig()
	cfg.HistoryPath = historyPath
	cfg.WebClient = &testutil.DummyWebClient{
		Pages: map[string]string{"http://site.test/": "<html><body>new version</body></html>"},
	}
	cfg.Logger = &testutil.DummyLogger{}
	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)

	rec := get(t, s, "/api/scan?url=http://site.test/")
	var resp server.ScanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Changed {
		t.Error("body changed since previous scan but Changed is false")
	}
}

func TestHandleScanDiff(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	historyPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, historyPath,
		&history.Scan{
			ID: "scan-old", URL: "http://site.test/", Level: "Low",
			Issues: []string{}, Features: assessor.NewFeatureVector(),
			HTML:      []byte("<html><body>price 10</body></html>"),
			CreatedAt: now.Add(-time.Hour),
		},
		&history.Scan{
			ID: "scan-new", URL: "http://site.test/", Level: "Low",
			Issues: []string{}, Features: assessor.NewFeatureVector(),
			HTML:      []byte("<html><body>price 20</body></html>"),
			CreatedAt: now,
		},
	)

	cfg := server.DefaultConfig()
	cfg.HistoryPath = historyPath
	cfg.WebClient = &testutil.DummyWebClient{}
	cfg.Logger = &testutil.DummyLogger{}
	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(s.Close)

	rec := get(t, s, "/api/scans/scan-new/diff")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var diff server.ScanDiffResponse
	if err := json.NewDecoder(rec.Body).Decode(&diff); err != nil {
		t.Fatalf("decoding diff: %v", err)
	}
	if diff.ScanID != "scan-new" || diff.PreviousScanID != "scan-old" {
		t.Errorf("diff ids = %q / %q", diff.ScanID, diff.PreviousScanID)
	}
	if !diff.Changed {
		t.Error("Changed = false for differing bodies")
	}
	if len(diff.Chunks) == 0 {
		t.Error("no chunks for differing bodies")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &testutil.DummyWebClient{})

	// Trip at least one counter so it shows up in the exposition.
	get(t, s, "/api/scan?url=http://any.test/")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "siteguard_scans_total") {
		t.Error("siteguard_scans_total missing from /metrics")
	}
}
