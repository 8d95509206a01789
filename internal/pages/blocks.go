package pages

import (
	"regexp"
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

const minBlockLen = 8

var (
	headingLineRe = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	listItemRe    = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.+)$`)
	codeFenceRe   = regexp.MustCompile("^\\s*(```|~~~)")
	hyphenWrapRe  = regexp.MustCompile(`[a-z]-$`)
)

// BuildBlocks walks segmented, boilerplate-filtered pages and emits the
// ordered evidence-block corpus. Heading lines open a heading context held
// until the next heading or the end of the page; list items become their
// own blocks; everything else accumulates into paragraphs flushed on blank
// lines. Code-fence regions are skipped entirely. Blocks never cross page
// boundaries.
func BuildBlocks(pgs []Page) []model.EvidenceBlock {
	var blocks []model.EvidenceBlock

	for _, p := range pgs {
		heading := p.Title
		var para []string
		inFence := false

		flush := func() {
			if len(para) == 0 {
				return
			}
			text := joinWrapped(para)
			para = nil
			if len(text) < minBlockLen {
				return
			}
			blocks = append(blocks, model.EvidenceBlock{
				Page:    p.Number,
				Heading: heading,
				Kind:    model.BlockParagraph,
				Text:    text,
			})
		}

		for _, line := range p.Lines {
			if codeFenceRe.MatchString(line) {
				flush()
				inFence = !inFence
				continue
			}
			if inFence {
				continue
			}

			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				flush()
				continue
			}

			if m := headingLineRe.FindStringSubmatch(trimmed); m != nil {
				flush()
				heading = strings.TrimSpace(m[1])
				continue
			}

			if m := listItemRe.FindStringSubmatch(line); m != nil {
				flush()
				text := strings.TrimSpace(m[1])
				if len(text) < minBlockLen {
					continue
				}
				blocks = append(blocks, model.EvidenceBlock{
					Page:    p.Number,
					Heading: heading,
					Kind:    model.BlockListItem,
					Text:    text,
				})
				continue
			}

			para = append(para, trimmed)
		}
		flush()
	}

	return blocks
}

// joinWrapped joins paragraph lines, rejoining words the converter split
// with a trailing hyphen at the line break.
func joinWrapped(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(line)
			continue
		}
		prev := b.String()
		if hyphenWrapRe.MatchString(prev) && startsLower(line) {
			// "require-" + "ments" -> "requirements"
			trimmed := prev[:len(prev)-1]
			b.Reset()
			b.WriteString(trimmed)
			b.WriteString(line)
			continue
		}
		b.WriteString(" ")
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}

func startsLower(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'a' && c <= 'z'
}
