package pages

import (
	"regexp"
	"strconv"
	"strings"
)

// Page is one segmented page of converted report text
type Page struct {
	Number int      // 1-based page number, 0 for an unmarked document
	Title  string   // Optional inline title captured from the marker
	Lines  []string // Page body lines, marker excluded
}

// The three page-marker forms emitted by PDF conversion:
//
//	### Page 12 — Climate strategy
//	--- Page 12 ---
//	Page 12: Climate strategy
var (
	headingMarkerRe = regexp.MustCompile(`(?i)^#{1,6}\s*Page\s+(\d+)\s*(?:[:\-\x{2013}\x{2014}]\s*)?(.*)$`)
	dividerMarkerRe = regexp.MustCompile(`(?i)^-{2,}\s*Page\s+(\d+)\s*-{2,}\s*$`)
	labelMarkerRe   = regexp.MustCompile(`(?i)^Page\s+(\d+)\s*:\s*(.*)$`)
)

// matchMarker reports whether a line is a page marker, returning the page
// number and any inline title.
func matchMarker(line string) (int, string, bool) {
	trimmed := strings.TrimSpace(line)
	if m := dividerMarkerRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, "", true
	}
	if m := headingMarkerRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, strings.TrimSpace(m[2]), true
	}
	if m := labelMarkerRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, strings.TrimSpace(m[2]), true
	}
	return 0, "", false
}

// Segment splits normalized text into ordered page records. Lines before
// the first marker are dropped when later markers exist; a document with
// no markers at all degrades to a single unmarked page instead of failing.
// Page numbers are forced non-decreasing so downstream block ordering
// invariants hold even for malformed input.
func Segment(text string) []Page {
	lines := strings.Split(text, "\n")

	var out []Page
	var current *Page
	lastNumber := 0

	for _, line := range lines {
		if n, title, ok := matchMarker(line); ok {
			if n < lastNumber {
				n = lastNumber
			}
			lastNumber = n
			if current != nil {
				out = append(out, *current)
			}
			current = &Page{Number: n, Title: title}
			continue
		}
		if current == nil {
			// Preamble before the first marker, dropped unless the
			// document turns out to have no markers at all.
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	if current != nil {
		out = append(out, *current)
		return out
	}

	// No markers anywhere: the whole document is one unmarked page.
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []Page{{Number: 0, Lines: lines}}
}

// Text returns the page body joined back into a single string
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}
