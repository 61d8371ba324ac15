// Package fetcher is the network boundary in front of the core: it retrieves
// target pages with the scanner's client identity and fetch deadline, decodes
// bodies to UTF-8, and reports failures as a distinct error type so callers
// can tell "could not fetch" apart from "fetched and scanned".
package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"sync"

	"golang.org/x/net/html/charset"

	"github.com/siteguard/siteguard/internal/logging"
	"github.com/siteguard/siteguard/internal/webclient"
)

// FetchError wraps any failure to retrieve a target page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is a fetched document ready for analysis. HTML is decoded to UTF-8
// according to the response charset.
type Page struct {
	URL        string
	HTML       []byte
	MediaType  string
	StatusCode int
}

// Fetcher retrieves pages through a WebClient.
type Fetcher struct {
	MaxConcurrency int
	wc             webclient.WebClient
	logger         logging.Logger
}

// New creates a Fetcher with the given webclient and logger.
func New(maxConcurrency int, wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Fetcher{
		MaxConcurrency: maxConcurrency,
		wc:             wc,
		logger:         logger,
	}, nil
}

// Fetch GETs a single page. Any transport failure comes back as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	resp, err := f.wc.Do(ctx, &webclient.Request{Method: "GET", URL: pageURL})
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("fetch failed",
				logging.Field{Key: "url", Value: pageURL},
				logging.Field{Key: "error", Value: err.Error()})
		}
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	contentType := resp.ContentType()
	return &Page{
		URL:        pageURL,
		HTML:       decodeBody(resp.Body, contentType),
		MediaType:  mediaType(contentType),
		StatusCode: resp.StatusCode,
	}, nil
}

// FetchAll fetches the given URLs concurrently, bounded by MaxConcurrency,
// and calls handle once per URL with either a page or a fetch error. handle
// may be called from multiple goroutines.
func (f *Fetcher) FetchAll(ctx context.Context, pageURLs []string, handle func(string, *Page, error)) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, f.MaxConcurrency)

	for _, pageURL := range pageURLs {
		if ctx.Err() != nil {
			return
		}

		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			page, err := f.Fetch(ctx, pageURL)
			handle(pageURL, page, err)
		}(pageURL)
	}

	wg.Wait()
}

// decodeBody converts the response body to UTF-8 based on the Content-Type
// charset. On any decoding problem the raw bytes are kept; the analyzer is
// tolerant of whatever it gets.
func decodeBody(body []byte, contentType string) []byte {
	r, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}

// mediaType strips parameters from a Content-Type header, defaulting to
// text/html when the header is absent or malformed.
func mediaType(contentType string) string {
	if contentType == "" {
		return "text/html"
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" {
		return "text/html"
	}
	return mt
}
