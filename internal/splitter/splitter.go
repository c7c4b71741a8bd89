// Package splitter partitions a merged document into per-record page ranges.
package splitter

import (
	"strings"
)

// DefaultAnchor marks the first page of a record.
const DefaultAnchor = "Start Date"

// Segment is an inclusive, zero-based page range and its joined text.
type Segment struct {
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Text      string `json:"-"`
}

// Pages returns the number of pages covered by the segment.
func (s Segment) Pages() int {
	return s.EndPage - s.StartPage + 1
}

// Boundaries returns the ascending indexes of pages containing anchor,
// compared case-insensitively. An empty anchor yields no boundaries.
func Boundaries(pages []string, anchor string) []int {
	needle := strings.ToLower(strings.TrimSpace(anchor))
	if needle == "" {
		return nil
	}

	var out []int
	for i, p := range pages {
		if strings.Contains(strings.ToLower(p), needle) {
			out = append(out, i)
		}
	}
	return out
}

// Split partitions pages at anchor pages. Each segment runs from a boundary to
// the page before the next one and the last runs to the final page. Pages
// before the first boundary belong to the first segment, and a document
// without boundaries is one segment, so every page is covered exactly once.
func Split(pages []string, anchor string) []Segment {
	if len(pages) == 0 {
		return nil
	}

	starts := Boundaries(pages, anchor)
	switch {
	case len(starts) == 0:
		starts = []int{0}
	case starts[0] != 0:
		starts[0] = 0
	}

	segments := make([]Segment, 0, len(starts))
	for i, start := range starts {
		end := len(pages) - 1
		if i+1 < len(starts) {
			end = starts[i+1] - 1
		}
		segments = append(segments, Segment{
			StartPage: start,
			EndPage:   end,
			Text:      strings.Join(pages[start:end+1], "\n"),
		})
	}

	return segments
}
