package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/siteguard/siteguard/internal/fetcher"
	"github.com/siteguard/siteguard/internal/logging"
)

// handleBatchScanWS scans a batch of URLs and streams one result per URL.
// The client sends a single BatchScanRequest after connecting; results arrive
// in completion order, then the connection closes.
func (s *Server) handleBatchScanWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var req BatchScanRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid request"})
		return
	}
	if len(req.URLs) == 0 {
		_ = conn.WriteJSON(map[string]string{"error": "missing urls"})
		return
	}

	s.logger.Info("started batch scan", logging.Field{Key: "count", Value: len(req.URLs)})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writes are serialized; results are produced from fetcher goroutines.
	var writeMu sync.Mutex

	s.fetcher.FetchAll(ctx, req.URLs, func(url string, page *fetcher.Page, err error) {
		out := BatchScanResult{URL: url}
		if err != nil {
			fetchErrorsTotal.Inc()
			out.Error = "fetch_error"
			out.Detail = err.Error()
		} else {
			out.Result = s.scanPage(ctx, page)
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		if writeErr := conn.WriteJSON(out); writeErr != nil {
			// Assume client disconnected; stop the remaining fetches.
			cancel()
		}
	})
}
