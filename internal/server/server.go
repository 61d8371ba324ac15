package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/fetcher"
	"github.com/siteguard/siteguard/internal/history"
	"github.com/siteguard/siteguard/internal/logging"
	"github.com/siteguard/siteguard/internal/sanitizer"
	"github.com/siteguard/siteguard/internal/webclient"

	_ "github.com/siteguard/siteguard/docs/swagger" // swagger spec registration
)

// Server is the HTTP + WebSocket API surface for SiteGuard.
type Server struct {
	cfg      Config
	router   chi.Router
	fetcher  *fetcher.Fetcher
	store    *history.Store
	upgrader websocket.Upgrader
	logger   logging.Logger
	ownedWC  webclient.WebClient
}

// NewServer creates a new Server with its own fetcher and history store.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	wc := cfg.WebClient
	var ownedWC webclient.WebClient
	if wc == nil {
		webclient.RegisterDefaultBackends()
		var err error
		wc, err = webclient.New("nethttp", cfg.FetchCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("creating webclient: %w", err)
		}
		ownedWC = wc
	}

	f, err := fetcher.New(cfg.MaxConcurrency, wc, logger)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	historyPath, err := expandPath(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("expanding history path: %w", err)
	}
	if dir := filepath.Dir(historyPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Warn("creating history directory",
				logging.Field{Key: "path", Value: dir},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}

	store, err := history.Open(historyPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		fetcher: f,
		store:   store,
		logger:  logger,
		ownedWC: ownedWC,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The sandbox iframe and extension pages connect cross-origin.
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.embeddingHeadersMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/api/scan", s.handleScan)
	r.Get("/sandbox", s.handleSandbox)

	// Scan history
	r.Get("/api/scans", s.handleListScans)
	r.Get("/api/scans/{scanID}", s.handleGetScan)
	r.Get("/api/scans/{scanID}/diff", s.handleScanDiff)

	// Batch scanning over WebSocket
	r.Get("/ws/scan", s.handleBatchScanWS)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())
}

// embeddingHeadersMiddleware re-asserts the iframe-friendly header policy on
// every response: the API must be frameable by the extension sandbox from any
// origin, and nothing served here should be cached.
func (s *Server) embeddingHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "ALLOWALL")
		w.Header().Set("Content-Security-Policy", "frame-ancestors *")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the history store and any owned transport.
func (s *Server) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("closing history store", logging.Field{Key: "error", Value: err.Error()})
		}
	}
	if s.ownedWC != nil {
		_ = s.ownedWC.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- scan pipeline ---

// scanPage runs the core pipeline on an already-fetched page and records the
// result. The returned response is complete even when recording fails; the
// scanner must always produce an answer.
func (s *Server) scanPage(ctx context.Context, page *fetcher.Page) *ScanResponse {
	features := assessor.ExtractFeatures(page.URL, page.HTML)
	result := assessor.Score(features)

	resp := &ScanResponse{
		URL:      page.URL,
		Score:    result.Score,
		Level:    result.Level,
		Issues:   result.Issues,
		Features: features,
	}

	scan, err := s.store.Record(ctx, &history.Scan{
		URL:      page.URL,
		Score:    result.Score,
		Level:    string(result.Level),
		Issues:   result.Issues,
		Features: features,
		HTML:     page.HTML,
	})
	if err != nil {
		s.logger.Warn("recording scan",
			logging.Field{Key: "url", Value: page.URL},
			logging.Field{Key: "error", Value: err.Error()})
		scansTotal.WithLabelValues(string(result.Level)).Inc()
		return resp
	}
	resp.ScanID = scan.ID

	prev, err := s.store.Previous(ctx, page.URL, scan.CreatedAt)
	switch {
	case err == nil:
		resp.Changed = prev.BodySHA256 != scan.BodySHA256
	case !errors.Is(err, history.ErrNotFound):
		s.logger.Warn("looking up previous scan",
			logging.Field{Key: "url", Value: page.URL},
			logging.Field{Key: "error", Value: err.Error()})
	}

	scansTotal.WithLabelValues(string(result.Level)).Inc()
	return resp
}

// --- HTTP handlers ---

// handleIndex confirms the API is up.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<h2>SiteGuard API Online</h2><p>Use /api/scan?url=... and /sandbox?url=...</p>")
}

// handleScan godoc
// @Summary Scan a page
// @Description Fetches the URL and returns its heuristic risk score, severity level, findings and feature vector.
// @Param url query string true "Page URL to scan"
// @Produce json
// @Success 200 {object} ScanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/scan [get]
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url", "")
		return
	}

	page, err := s.fetcher.Fetch(r.Context(), url)
	if err != nil {
		fetchErrorsTotal.Inc()
		writeError(w, http.StatusBadGateway, "fetch_error", err.Error())
		return
	}

	resp := s.scanPage(r.Context(), page)
	s.logger.Info("scanned page",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "score", Value: resp.Score},
		logging.Field{Key: "level", Value: resp.Level})
	writeJSON(w, http.StatusOK, resp)
}

// handleSandbox godoc
// @Summary Serve a sanitized copy of a page
// @Description Fetches the URL, injects a base tag, strips inline CSP metas and re-serves the markup with frame-friendly headers.
// @Param url query string true "Page URL to render"
// @Produce html
// @Success 200 {string} string "sanitized HTML"
// @Failure 400 {string} string "missing url"
// @Failure 502 {string} string "fetch error"
// @Router /sandbox [get]
func (s *Server) handleSandbox(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url", http.StatusBadRequest)
		return
	}

	page, err := s.fetcher.Fetch(r.Context(), url)
	if err != nil {
		fetchErrorsTotal.Inc()
		http.Error(w, fmt.Sprintf("fetch error: %v", err), http.StatusBadGateway)
		return
	}

	out := sanitizer.Sanitize(url, page.HTML)
	sanitizesTotal.Inc()
	s.logger.Info("served sandbox page",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "bytes", Value: len(out)})

	w.Header().Set("Content-Type", page.MediaType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleListScans godoc
// @Summary List recent scans of a URL
// @Param url query string true "Scanned URL"
// @Param limit query int false "Maximum entries (default 20)"
// @Produce json
// @Success 200 {array} history.Scan
// @Failure 400 {object} ErrorResponse
// @Router /api/scans [get]
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url", "")
		return
	}

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	scans, err := s.store.ListByURL(r.Context(), url, limit)
	if err != nil {
		s.logger.Warn("listing scans", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// handleGetScan godoc
// @Summary Fetch one stored scan
// @Param scanID path string true "Scan ID"
// @Produce json
// @Success 200 {object} history.Scan
// @Failure 404 {object} ErrorResponse
// @Router /api/scans/{scanID} [get]
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")
	scan, err := s.store.Get(r.Context(), scanID)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scan not found", "")
		return
	}
	if err != nil {
		s.logger.Warn("getting scan", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// handleScanDiff godoc
// @Summary Diff a scan against the previous scan of the same URL
// @Param scanID path string true "Scan ID"
// @Produce json
// @Success 200 {object} ScanDiffResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/scans/{scanID}/diff [get]
func (s *Server) handleScanDiff(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanID")

	scan, err := s.store.Get(r.Context(), scanID)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "scan not found", "")
		return
	}
	if err != nil {
		s.logger.Warn("getting scan", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	prev, err := s.store.Previous(r.Context(), scan.URL, scan.CreatedAt)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no previous scan for url", "")
		return
	}
	if err != nil {
		s.logger.Warn("getting previous scan", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	resp := &ScanDiffResponse{
		ScanID:         scan.ID,
		PreviousScanID: prev.ID,
		URL:            scan.URL,
		Changed:        scan.BodySHA256 != prev.BodySHA256,
	}
	if resp.Changed {
		resp.Chunks = history.DiffHTML(prev.HTML, scan.HTML)
	} else {
		resp.Chunks = []history.ChangeChunk{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Detail: detail})
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
