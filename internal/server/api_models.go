package server

import (
	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/history"
)

// ScanResponse is the structured result of one scan.
type ScanResponse struct {
	URL      string                  `json:"url" example:"https://example.com/"`
	Score    int                     `json:"score" example:"35"`
	Level    assessor.Level          `json:"level" example:"Low"`
	Issues   []string                `json:"issues" example:"Mixed content on HTTPS (+25)"`
	Features *assessor.FeatureVector `json:"features"`
	ScanID   string                  `json:"scan_id,omitempty" example:"6f1e9e2e-0dd4-4b4e-9a7e-0b9e6a1a2b3c"`
	Changed  bool                    `json:"changed"`
}

// BatchScanRequest is the first message a websocket client sends on /ws/scan.
type BatchScanRequest struct {
	URLs []string `json:"urls" example:"[\"https://example.com/\"]"`
}

// BatchScanResult is one streamed entry of a websocket batch scan.
type BatchScanResult struct {
	URL    string        `json:"url"`
	Result *ScanResponse `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// ScanDiffResponse describes how a page changed between a scan and the
// previous scan of the same URL.
type ScanDiffResponse struct {
	ScanID         string                `json:"scan_id"`
	PreviousScanID string                `json:"previous_scan_id"`
	URL            string                `json:"url"`
	Changed        bool                  `json:"changed"`
	Chunks         []history.ChangeChunk `json:"chunks"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error  string `json:"error" example:"fetch_error"`
	Detail string `json:"detail,omitempty" example:"context deadline exceeded"`
}
