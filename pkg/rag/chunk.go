package rag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"doccoder-be/pkg/utils"
)

var pageMarker = regexp.MustCompile(`\[PAGE_(\d+)\]\n?`)

type ChunkMeta struct {
	SourceID     string `json:"source_id"`
	SourceName   string `json:"source_name"`
	PageNumber   int    `json:"page_number,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
}

type DocumentChunk struct {
	Index   int       `json:"index"`
	Content string    `json:"content"`
	Meta    ChunkMeta `json:"metadata"`
}

// WithPageMarkers joins page texts, prefixing each with [PAGE_N].
func WithPageMarkers(pages []string) string {
	var b strings.Builder
	for i, p := range pages {
		fmt.Fprintf(&b, "[PAGE_%d]\n%s\n", i+1, strings.TrimSpace(p))
	}
	return b.String()
}

// ChunkDocument splits text into overlapping chunks. A chunk takes the page of
// the first [PAGE_N] marker it contains, otherwise the page of the previous
// chunk. Markers are removed from the chunk content.
func ChunkDocument(text string, meta ChunkMeta, size, overlap int) []DocumentChunk {
	page := meta.PageNumber
	if page == 0 {
		page = 1
	}

	var out []DocumentChunk
	for _, raw := range utils.SplitText(text, size, overlap) {
		if m := pageMarker.FindStringSubmatch(raw); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				page = n
			}
		}
		body := strings.TrimSpace(pageMarker.ReplaceAllString(raw, ""))
		if body == "" {
			continue
		}
		cm := meta
		cm.PageNumber = page
		out = append(out, DocumentChunk{Index: len(out), Content: body, Meta: cm})
	}
	return out
}
