package server_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/siteguard/siteguard/internal/server"
	"github.com/siteguard/siteguard/internal/testutil"
)

func dialWS(t *testing.T, s *server.Server) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBatchScanWS(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{
		Pages: map[string]string{
			"http://a.test/": "<html><body>clean</body></html>",
			"http://b.test/": phishyHTML,
		},
		FailURLs: map[string]bool{"http://down.test/": true},
	}
	s := newTestServer(t, wc)
	conn := dialWS(t, s)

	req := server.BatchScanRequest{
		URLs: []string{"http://a.test/", "http://b.test/", "http://down.test/"},
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("sending request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	results := map[string]server.BatchScanResult{}
	for i := 0; i < len(req.URLs); i++ {
		var res server.BatchScanResult
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("reading result %d: %v", i, err)
		}
		results[res.URL] = res
	}

	clean, ok := results["http://a.test/"]
	if !ok || clean.Result == nil {
		t.Fatalf("no result for clean page: %+v", results)
	}
	if clean.Result.Score != 0 || clean.Error != "" {
		t.Errorf("clean page result = %+v", clean)
	}

	risky, ok := results["http://b.test/"]
	if !ok || risky.Result == nil {
		t.Fatalf("no result for risky page: %+v", results)
	}
	if risky.Result.Score != 70 {
		t.Errorf("risky page score = %d, want 70", risky.Result.Score)
	}
	if risky.Result.ScanID == "" {
		t.Error("batch scan not recorded to history")
	}

	failed, ok := results["http://down.test/"]
	if !ok {
		t.Fatalf("no result for failing page: %+v", results)
	}
	if failed.Error != "fetch_error" || failed.Result != nil {
		t.Errorf("failing page result = %+v", failed)
	}
	if failed.Detail == "" {
		t.Error("fetch error detail missing")
	}
}

func TestBatchScanWS_EmptyRequest(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &testutil.DummyWebClient{})
	conn := dialWS(t, s)

	if err := conn.WriteJSON(server.BatchScanRequest{}); err != nil {
		t.Fatalf("sending request: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var res map[string]string
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("reading error message: %v", err)
	}
	if res["error"] != "missing urls" {
		t.Errorf("error = %q, want %q", res["error"], "missing urls")
	}
}
