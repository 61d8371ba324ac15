// Package assessor turns a page's HTML into a fixed feature vector and maps
// that vector to a bounded risk score with human-readable findings.
package assessor

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/siteguard/siteguard/internal/urlclass"
)

// FeatureVector is the fixed-shape record extracted from one document. The
// field set is identical for every scan; only values vary. It is a value
// object with no shared state, safe to hand between goroutines.
type FeatureVector struct {
	MixedContent       bool     `json:"mixedContent"`
	MetaRefresh        bool     `json:"metaRefresh"`
	InlineHandlers     int      `json:"inlineHandlers"`
	SuspiciousInlineJS int      `json:"suspiciousInlineJS"`
	DataURIScripts     int      `json:"dataURIScripts"`
	ShortenerLinks     int      `json:"shortenerLinks"`
	IPLinks            int      `json:"ipLinks"`
	SuspiciousTLDs     int      `json:"suspiciousTLDs"`
	ExecDownloads      []string `json:"execDownloads"`
	FormsToHTTP        int      `json:"formsToHTTP"`
	HiddenIframes      int      `json:"hiddenIframes"`
	ThirdPartyScripts  int      `json:"thirdPartyScripts"`
	OnBeforeUnload     bool     `json:"onBeforeUnload"`
	FingerprintingAPIs int      `json:"fingerprintingAPIs"`
	Base64InLinks      int      `json:"base64InLinks"`
}

// NewFeatureVector returns an all-zero vector. ExecDownloads is a non-nil
// empty slice so the vector serializes with the full field set.
func NewFeatureVector() *FeatureVector {
	return &FeatureVector{ExecDownloads: []string{}}
}

// inlineHandlerAttrs is the recognized set of inline event-handler attribute
// names. An element carrying several of them contributes several counts.
var inlineHandlerAttrs = []string{
	"onclick", "onload", "onerror", "onmouseover", "onfocus",
	"onmouseleave", "onmouseenter", "onkeydown", "onkeyup",
	"onbeforeunload", "ondblclick", "onsubmit", "onchange", "oninput",
}

var (
	suspiciousJSRe   = regexp.MustCompile(`(?i)(eval\(|new Function\(|document\.write\(|atob\()`)
	dataURIScriptRe  = regexp.MustCompile(`(?i)data:\s*text/javascript`)
	fingerprintingRe = regexp.MustCompile(`CanvasRenderingContext2D|WebGLRenderingContext|RTCPeerConnection|deviceMemory|hardwareConcurrency`)
)

// ExtractFeatures walks the document once and fills a FeatureVector. It never
// fails: malformed or empty HTML yields the zero vector, and individual links
// that do not resolve are skipped without being counted. The input document
// is not mutated.
func ExtractFeatures(pageURL string, html []byte) *FeatureVector {
	f := NewFeatureVector()

	// Textual checks run on the raw bytes so script-injected handlers are
	// caught even when they never appear as attributes.
	lowerHTML := strings.ToLower(string(html))
	if strings.Contains(lowerHTML, "onbeforeunload") {
		f.OnBeforeUnload = true
	}
	if fingerprintingRe.Match(html) {
		f.FingerprintingAPIs = 1
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		// Keep whatever the textual checks found.
		return f
	}

	base, baseErr := urlclass.ParseBase(pageURL)
	if baseErr != nil {
		base = nil
	}
	pageOrigin := urlclass.Origin(base)
	pageIsHTTPS := base != nil && base.Scheme == "https"

	if pageIsHTTPS {
		doc.Find("[src],[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			v := getAttr(sel, "src")
			if v == "" {
				v = getAttr(sel, "href")
			}
			if strings.HasPrefix(strings.ToLower(v), "http://") {
				f.MixedContent = true
				return false
			}
			return true
		})
	}

	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.EqualFold(getAttr(sel, "http-equiv"), "refresh") {
			f.MetaRefresh = true
			return false
		}
		return true
	})

	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range inlineHandlerAttrs {
			if _, ok := sel.Attr(attr); ok {
				f.InlineHandlers++
			}
		}
	})

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if getAttr(sel, "src") != "" {
			return
		}
		txt := sel.Text()
		if suspiciousJSRe.MatchString(txt) {
			f.SuspiciousInlineJS++
		}
		if dataURIScriptRe.MatchString(txt) {
			f.DataURIScripts++
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := getAttr(sel, "href")
		link := urlclass.Classify(base, href)
		if link == nil {
			return
		}
		if link.IsShortener() {
			f.ShortenerLinks++
		}
		if link.IsBareIPv4() {
			f.IPLinks++
		}
		if link.IsSuspiciousTLD() {
			f.SuspiciousTLDs++
		}
		if link.HasBase64Marker() {
			f.Base64InLinks++
		}
		_, forceDownload := sel.Attr("download")
		if forceDownload || link.LooksExecutable() {
			f.ExecDownloads = append(f.ExecDownloads, link.Resolved)
		}
	})

	doc.Find("form[action]").Each(func(_ int, sel *goquery.Selection) {
		action := urlclass.Classify(base, getAttr(sel, "action"))
		if action == nil {
			return
		}
		if action.Scheme == "http" {
			f.FormsToHTTP++
		}
	})

	doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		style := strings.ToLower(getAttr(sel, "style"))
		if strings.Contains(style, "display:none") ||
			strings.Contains(style, "visibility:hidden") ||
			getAttr(sel, "width") == "0" ||
			getAttr(sel, "height") == "0" {
			f.HiddenIframes++
		}
	})

	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src := urlclass.Classify(base, getAttr(sel, "src"))
		if src == nil {
			return
		}
		if src.Origin != pageOrigin {
			f.ThirdPartyScripts++
		}
	})

	return f
}

// getAttr safely retrieves an attribute value from a goquery selection.
func getAttr(sel *goquery.Selection, attrName string) string {
	val, exists := sel.Attr(attrName)
	if exists {
		return strings.TrimSpace(val)
	}
	return ""
}
