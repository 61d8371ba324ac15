// Package sanitizer rewrites fetched markup so it can be re-served inside an
// isolated viewer: it injects a <base> tag pointing at the original page URL
// and strips inline Content-Security-Policy metas that would block framing.
package sanitizer

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sanitize returns a copy of rawHTML safe to embed. Relative references keep
// resolving against pageURL via the injected <base>. If the input cannot be
// parsed the original bytes are returned unchanged; serving unparsable
// content as-is beats erroring the viewer.
func Sanitize(pageURL string, rawHTML []byte) []byte {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil || len(doc.Nodes) == 0 {
		return rawHTML
	}

	head := findOrCreateHead(doc)
	if head != nil {
		base := &html.Node{
			Type:     html.ElementNode,
			Data:     "base",
			DataAtom: atom.Base,
			Attr:     []html.Attribute{{Key: "href", Val: pageURL}},
		}
		head.InsertBefore(base, head.FirstChild)
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		if equiv, ok := sel.Attr("http-equiv"); ok && strings.EqualFold(equiv, "content-security-policy") {
			sel.Remove()
		}
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc.Nodes[0]); err != nil {
		return rawHTML
	}
	return buf.Bytes()
}

// findOrCreateHead returns the document's <head> node. The permissive parser
// synthesizes one for any text/html input, but guard anyway and create it as
// the first child of <html> when absent.
func findOrCreateHead(doc *goquery.Document) *html.Node {
	if sel := doc.Find("head"); len(sel.Nodes) > 0 {
		return sel.Nodes[0]
	}

	htmlSel := doc.Find("html")
	if len(htmlSel.Nodes) == 0 {
		return nil
	}
	root := htmlSel.Nodes[0]
	head := &html.Node{
		Type:     html.ElementNode,
		Data:     "head",
		DataAtom: atom.Head,
	}
	root.InsertBefore(head, root.FirstChild)
	return head
}
