// Package urlclass resolves and classifies links found in scanned documents.
// Classification is pure string/host inspection; no network access happens
// here.
package urlclass

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// ClassifiedURL is the result of resolving a raw link against its page URL.
type ClassifiedURL struct {
	// Resolved is the absolute URL string after relative resolution.
	Resolved string

	// Scheme is the lowercased scheme of the resolved URL.
	Scheme string

	// Host is the lowercased hostname (no port) of the resolved URL.
	Host string

	// Path is the path component of the resolved URL.
	Path string

	// Origin is "scheme://host[:port]" of the resolved URL, for comparison
	// against the scanned page's own origin.
	Origin string
}

var dottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

// Classify resolves rawLink against base and returns its classification.
// It returns nil when the link cannot be parsed; callers must treat nil as
// "skip, do not count".
func Classify(base *url.URL, rawLink string) *ClassifiedURL {
	rawLink = strings.TrimSpace(rawLink)
	if rawLink == "" {
		return nil
	}

	ref, err := url.Parse(rawLink)
	if err != nil {
		return nil
	}

	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}

	host := strings.ToLower(resolved.Hostname())
	// IDN hosts compare against the constant sets in punycode form.
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	return &ClassifiedURL{
		Resolved: resolved.String(),
		Scheme:   strings.ToLower(resolved.Scheme),
		Host:     host,
		Path:     resolved.Path,
		Origin:   strings.ToLower(resolved.Scheme) + "://" + strings.ToLower(resolved.Host),
	}
}

// ParseBase parses a page URL for use as a resolution base. Unlike Classify
// it returns the error so the boundary layer can report unusable page URLs.
func ParseBase(pageURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return nil, err
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

// Origin returns "scheme://host[:port]" for origin comparisons.
func Origin(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// IsShortener reports whether the classified host is a known URL shortener.
// Exact host match only; subdomains of shorteners do not count.
func (c *ClassifiedURL) IsShortener() bool {
	_, ok := shortenerHosts[c.Host]
	return ok
}

// IsBareIPv4 reports whether the host is a bare dotted-quad address. Octet
// ranges are deliberately not validated; "999.1.1.1" still reads as an IP
// link for triage purposes.
func (c *ClassifiedURL) IsBareIPv4() bool {
	return dottedQuad.MatchString(c.Host)
}

// IsSuspiciousTLD reports whether the host ends in one of the suspicious
// top-level domains.
func (c *ClassifiedURL) IsSuspiciousTLD() bool {
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(c.Host, tld) {
			return true
		}
	}
	return false
}

// LooksExecutable reports whether the resolved URL ends in an executable or
// archive extension. The force-download attribute case is handled by the
// extractor on the source element, not here.
func (c *ClassifiedURL) LooksExecutable() bool {
	lower := strings.ToLower(c.Resolved)
	for _, ext := range downloadExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// HasBase64Marker reports whether the resolved URL embeds a base64 content
// marker anywhere in it.
func (c *ClassifiedURL) HasBase64Marker() bool {
	return strings.Contains(strings.ToLower(c.Resolved), "base64,")
}
