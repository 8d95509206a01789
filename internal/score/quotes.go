package score

import (
	"regexp"
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// scoredQuote pairs a quote with its selection quality. The quality value
// never leaves this package.
type scoredQuote struct {
	quote   model.EvidenceQuote
	quality float64
}

const shortBlockLen = 240

// buildQuote constructs an evidence quote anchored at block i. Short
// blocks are expanded with adjacent blocks sharing page, heading, and kind
// so a match inside a fragmented paragraph still reads as one. The anchor
// block always survives clipping: trailing context is appended before the
// clip, leading context is prepended only into whatever room the clip
// leaves, so a large neighbor can never push the matched text out.
func buildQuote(blocks []model.EvidenceBlock, i int, maxChars int) scoredQuote {
	b := blocks[i]
	text := b.Text

	if len(text) < shortBlockLen {
		for j := i + 1; j < len(blocks) && len(text) < shortBlockLen*2; j++ {
			if !sameContext(b, blocks[j]) {
				break
			}
			text = text + " " + blocks[j].Text
		}
	}
	text = clip(text, maxChars)

	if len(b.Text) < shortBlockLen {
		room := shortBlockLen*2 - len(text)
		if m := maxChars - len(text); m < room {
			room = m
		}
		for j := i - 1; j >= 0 && room > 1; j-- {
			if !sameContext(b, blocks[j]) {
				break
			}
			prev := tailClip(blocks[j].Text, room-1)
			if prev == "" {
				break
			}
			text = prev + " " + text
			room -= len(prev) + 1
		}
	}

	q := model.EvidenceQuote{Text: text, Heading: b.Heading}
	if b.Page > 0 {
		page := b.Page
		q.Page = &page
	}
	return scoredQuote{quote: q, quality: quoteQuality(text)}
}

func sameContext(a, b model.EvidenceBlock) bool {
	return a.Page == b.Page && a.Heading == b.Heading && a.Kind == b.Kind
}

// clip bounds text to max characters, preferring to cut at a sentence
// boundary in the second half, else at the last word boundary.
func clip(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	if i := strings.LastIndex(cut, ". "); i >= max/2 {
		return cut[:i+1]
	}
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		return strings.TrimRight(cut[:i], " ,;:")
	}
	return cut
}

// tailClip keeps at most max trailing characters of text, cutting at a
// word boundary. Empty when no whole word fits.
func tailClip(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	cut := text[len(text)-max:]
	i := strings.IndexByte(cut, ' ')
	if i < 0 {
		return ""
	}
	return strings.TrimLeft(cut[i+1:], " ,;:")
}

var (
	percentRe  = regexp.MustCompile(`\d+(\.\d+)?\s*%`)
	groupedRe  = regexp.MustCompile(`\d{1,3}(,\d{3})+`)
	unitRe     = regexp.MustCompile(`(?i)\b(t|kt|mt)co2-?e?\b|\b(M|G)Wh\b|\bGJ\b|\bm³\b|tonnes?\b|megalitres?\b`)
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	targetLang = regexp.MustCompile(`(?i)\b(target|commit(ment|ted)?|pledge|net[- ]?zero|by 20\d{2})\b`)
	scopeRe    = regexp.MustCompile(`(?i)scope\s*[123]\b`)
)

// quoteQuality ranks candidate quotes for selection. Rewards concrete,
// quantitative evidence over vague prose; used only to pick the best
// quotes among duplicates, never for pass/fail.
func quoteQuality(text string) float64 {
	q := 0.0
	if percentRe.MatchString(text) {
		q += 2
	}
	if groupedRe.MatchString(text) {
		q += 2
	}
	if unitRe.MatchString(text) {
		q += 2
	}
	if yearRe.MatchString(text) {
		q += 1.5
	}
	if targetLang.MatchString(text) {
		q += 1.5
	}
	if scopeRe.MatchString(text) {
		q += 1.5
	}
	if strings.Count(text, "|") >= 2 {
		q += 1
	}
	if n := len(text); n >= 120 && n <= 900 {
		q += 1
	}
	return q
}
