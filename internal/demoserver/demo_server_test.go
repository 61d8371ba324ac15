package demoserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/demoserver"
	"github.com/siteguard/siteguard/internal/sanitizer"
)

func newDemoHTTP(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func fetchPage(t *testing.T, srv *httptest.Server, path string) (string, []byte) {
	t.Helper()
	pageURL := srv.URL + path
	resp, err := http.Get(pageURL)
	if err != nil {
		t.Fatalf("GET %s: %v", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", pageURL, err)
	}
	return pageURL, body
}

func TestCleanPageScoresZero(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)
	pageURL, body := fetchPage(t, srv, "/clean")

	res := assessor.Score(assessor.ExtractFeatures(pageURL, body))
	if res.Score != 0 || res.Level != assessor.LevelLow {
		t.Errorf("clean page scored %d/%s: %v", res.Score, res.Level, res.Issues)
	}
}

func TestPhishyPageScoresHigh(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)
	pageURL, body := fetchPage(t, srv, "/phishy")

	f := assessor.ExtractFeatures(pageURL, body)
	res := assessor.Score(f)

	if res.Score != 100 {
		t.Errorf("phishy page scored %d, want clamped 100 (issues %v)", res.Score, res.Issues)
	}
	if res.Level != assessor.LevelHigh {
		t.Errorf("Level = %q, want High", res.Level)
	}

	// Spot-check the individual heuristics the fixture claims to trip.
	if !f.MetaRefresh {
		t.Error("meta refresh not tripped")
	}
	if f.SuspiciousInlineJS == 0 {
		t.Error("suspicious inline JS not tripped")
	}
	if f.DataURIScripts == 0 {
		t.Error("data-URI script not tripped")
	}
	if f.ShortenerLinks < 4 {
		t.Errorf("ShortenerLinks = %d, want >= 4", f.ShortenerLinks)
	}
	if f.IPLinks == 0 || f.SuspiciousTLDs == 0 {
		t.Errorf("link heuristics not tripped: ip=%d tld=%d", f.IPLinks, f.SuspiciousTLDs)
	}
	if len(f.ExecDownloads) != 2 {
		t.Errorf("ExecDownloads = %v, want the .exe and the forced download", f.ExecDownloads)
	}
	if f.FormsToHTTP == 0 || f.HiddenIframes != 2 {
		t.Errorf("form/iframe heuristics: forms=%d iframes=%d", f.FormsToHTTP, f.HiddenIframes)
	}
	if !f.OnBeforeUnload || f.FingerprintingAPIs == 0 || f.Base64InLinks == 0 {
		t.Errorf("textual heuristics: unload=%v fp=%d b64=%d",
			f.OnBeforeUnload, f.FingerprintingAPIs, f.Base64InLinks)
	}
}

func TestHandlersPageCrossesThreshold(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)
	pageURL, body := fetchPage(t, srv, "/handlers")

	f := assessor.ExtractFeatures(pageURL, body)
	if f.InlineHandlers != 25 {
		t.Errorf("InlineHandlers = %d, want 25", f.InlineHandlers)
	}

	res := assessor.Score(f)
	want := "Many inline event handlers (+10)"
	found := 0
	for _, issue := range res.Issues {
		if issue == want {
			found++
		}
	}
	if found != 1 {
		t.Errorf("%q appeared %d times in %v, want exactly once", want, found, res.Issues)
	}
}

func TestCSPPageSanitizes(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)
	pageURL, body := fetchPage(t, srv, "/csp")

	out := string(sanitizer.Sanitize(pageURL, body))
	if strings.Contains(strings.ToLower(out), "content-security-policy") {
		t.Error("CSP meta survived sanitizing")
	}
	if !strings.Contains(out, `<base href="`+pageURL+`"`) {
		t.Error("base tag not injected")
	}
	if !strings.Contains(out, "refuses to be framed") {
		t.Error("page content lost")
	}
}

func TestVersionSwitching(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)

	_, v1 := fetchPage(t, srv, "/versioned")
	if !strings.Contains(string(v1), "Version 1") {
		t.Fatalf("initial version = %q", v1)
	}

	resp, err := http.PostForm(srv.URL+"/demo/set-version",
		url.Values{"path": {"/versioned"}, "version": {"3"}})
	if err != nil {
		t.Fatalf("set-version: %v", err)
	}
	resp.Body.Close()

	_, v3 := fetchPage(t, srv, "/versioned")
	if !strings.Contains(string(v3), "Version 3") {
		t.Errorf("after switch got %q", v3)
	}

	// Unknown versions fall back to the closest lower one.
	resp, err = http.PostForm(srv.URL+"/demo/set-version",
		url.Values{"path": {"/versioned"}, "version": {"99"}})
	if err != nil {
		t.Fatalf("set-version: %v", err)
	}
	resp.Body.Close()
	_, fallback := fetchPage(t, srv, "/versioned")
	if !strings.Contains(string(fallback), "Version 3") {
		t.Errorf("fallback got %q", fallback)
	}

	// Reset restores the initial version everywhere.
	resp, err = http.Post(srv.URL+"/demo/reset", "", nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	resp.Body.Close()
	_, back := fetchPage(t, srv, "/versioned")
	if !strings.Contains(string(back), "Version 1") {
		t.Errorf("after reset got %q", back)
	}
}

func TestGetVersions(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)

	resp, err := http.Get(srv.URL + "/demo/get-versions")
	if err != nil {
		t.Fatalf("get-versions: %v", err)
	}
	defer resp.Body.Close()

	var pages []struct {
		Path              string `json:"path"`
		CurrentVersion    int    `json:"current_version"`
		AvailableVersions []int  `json:"available_versions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pages); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(pages) != 6 {
		t.Fatalf("listed %d pages, want 6", len(pages))
	}

	for _, p := range pages {
		if p.CurrentVersion != 1 {
			t.Errorf("%s: current version %d, want 1", p.Path, p.CurrentVersion)
		}
		if p.Path == "/versioned" && len(p.AvailableVersions) != 3 {
			t.Errorf("/versioned has %d versions, want 3", len(p.AvailableVersions))
		}
	}
}

func TestSetVersionRequiresPost(t *testing.T) {
	t.Parallel()

	srv := newDemoHTTP(t)
	resp, err := http.Get(srv.URL + "/demo/set-version")
	if err != nil {
		t.Fatalf("GET set-version: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
