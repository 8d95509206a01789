package pages

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	candidatesPerEdge = 5
	minCandidateLen   = 8
	maxCandidateLen   = 200
	minPagesForStats  = 3
)

var digitRunRe = regexp.MustCompile(`\d+`)

// StripBoilerplate removes header/footer lines that repeat across pages
// (running document titles, page footers). Repetition statistics are
// unreliable on tiny documents, so fewer than 3 pages pass through
// untouched. Detection is two-stage: a line shape must repeat on at least
// max(3, 25% of pages) pages AND at least one example must look like
// boilerplate prose rather than repeated content words.
func StripBoilerplate(pgs []Page) []Page {
	if len(pgs) < minPagesForStats {
		return pgs
	}

	freq := make(map[string]int)
	example := make(map[string]string)

	for _, p := range pgs {
		seen := make(map[string]bool) // count each shape once per page
		for _, line := range candidateLines(p) {
			key := shapeKey(line)
			if seen[key] {
				continue
			}
			seen[key] = true
			freq[key]++
			if _, ok := example[key]; !ok {
				example[key] = line
			}
		}
	}

	threshold := int(math.Ceil(0.25 * float64(len(pgs))))
	if threshold < 3 {
		threshold = 3
	}

	markers := make(map[string]bool)
	for key, n := range freq {
		if n >= threshold && looksLikeBoilerplate(example[key]) {
			markers[key] = true
		}
	}
	if len(markers) == 0 {
		return pgs
	}

	out := make([]Page, len(pgs))
	for i, p := range pgs {
		kept := make([]string, 0, len(p.Lines))
		for _, line := range p.Lines {
			if isCandidateShape(line) && markers[shapeKey(line)] {
				continue
			}
			kept = append(kept, line)
		}
		out[i] = Page{Number: p.Number, Title: p.Title, Lines: kept}
	}
	return out
}

// candidateLines samples up to 5 plausible header/footer lines from each
// end of a page.
func candidateLines(p Page) []string {
	var nonEmpty []string
	for _, line := range p.Lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	var out []string
	head := candidatesPerEdge
	if head > len(nonEmpty) {
		head = len(nonEmpty)
	}
	for _, line := range nonEmpty[:head] {
		if isCandidateShape(line) {
			out = append(out, line)
		}
	}
	tailStart := len(nonEmpty) - candidatesPerEdge
	if tailStart < head {
		tailStart = head
	}
	for _, line := range nonEmpty[tailStart:] {
		if isCandidateShape(line) {
			out = append(out, line)
		}
	}
	return out
}

// isCandidateShape filters to short prose-like lines: no headings, list
// items, or table rows.
func isCandidateShape(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) < minCandidateLen || len(t) > maxCandidateLen {
		return false
	}
	if strings.HasPrefix(t, "#") || strings.HasPrefix(t, "|") {
		return false
	}
	if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") {
		return false
	}
	return true
}

// shapeKey folds digits so "Sustainability Report 2024 | 17" and
// "... | 18" collapse to the same key.
func shapeKey(line string) string {
	t := strings.ToLower(strings.TrimSpace(line))
	t = digitRunRe.ReplaceAllString(t, "#")
	return strings.Join(strings.Fields(t), " ")
}

var titlePhrases = []string{
	"sustainability report",
	"annual report",
	"esg report",
	"integrated report",
	"climate report",
	"all rights reserved",
	"page # of",
}

// looksLikeBoilerplate is the lexical half of the filter: running document
// titles, shouty headers, or digit-heavy footer strings.
func looksLikeBoilerplate(line string) bool {
	t := strings.TrimSpace(line)
	lower := strings.ToLower(t)

	for _, phrase := range titlePhrases {
		if strings.Contains(strings.Join(strings.Fields(digitRunRe.ReplaceAllString(lower, "#")), " "), phrase) ||
			strings.Contains(lower, phrase) {
			return true
		}
	}

	letters, upper, digits := 0, 0, 0
	for _, r := range t {
		switch {
		case unicode.IsUpper(r):
			upper++
			letters++
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	if letters > 0 && float64(upper)/float64(letters) > 0.6 {
		return true
	}
	if len(t) < 40 && digits > 0 && float64(digits)/float64(len(t)) > 0.3 {
		return true
	}
	return false
}
