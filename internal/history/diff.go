package history

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeChunk is a single added or removed run of text between two scans of
// the same URL.
type ChangeChunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content"`
}

// DiffHTML computes the changed chunks between a base and head document.
// Equal runs are dropped; whitespace-only changes are ignored.
//
// The diff is computed at the character level, which allows for precise
// change detection. For very large documents, consider line-based diffing.
func DiffHTML(base, head []byte) []ChangeChunk {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(string(base), string(head), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]ChangeChunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}

		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, ChangeChunk{
				Type:    chunkType,
				Content: d.Text,
			})
		}
	}

	return chunks
}
