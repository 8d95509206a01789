package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ligatures maps typographic ligatures emitted by PDF conversion back to
// their ASCII expansions.
var ligatures = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
	" ", " ",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

var (
	// Invisible and bidi control characters that survive PDF conversion
	invisibleRe = regexp.MustCompile(`[\x{0000}-\x{0008}\x{000B}\x{000C}\x{000E}-\x{001F}\x{007F}\x{00AD}\x{200B}-\x{200F}\x{2028}\x{2029}\x{202A}-\x{202E}\x{2060}\x{FEFF}]`)

	// Decorative bullet/arrow glyphs at line start become "-", elsewhere dropped
	bulletLeadRe = regexp.MustCompile(`(?m)^[ \t]*[\x{2022}\x{25aa}\x{25cf}\x{25e6}\x{2023}\x{27a4}\x{25b6}\x{25ba}\x{2192}\x{00b7}][ \t]*`)
	bulletAnyRe  = regexp.MustCompile(`[\x{2022}\x{25aa}\x{25cf}\x{25e6}\x{2023}\x{27a4}\x{25b6}\x{25ba}\x{2192}\x{00b7}]`)

	// Markdown image syntax and empty links
	mdImageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdEmptyLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(\s*\)`)

	htmlTagRe   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	hspaceRe    = regexp.MustCompile(`[ \t]{2,}`)
	trailWSRe   = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw converted report text into prose the rest of the
// pipeline can segment. Deterministic and side-effect-free; empty input
// returns an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Line endings first so every later pattern sees \n only
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = invisibleRe.ReplaceAllString(text, "")
	text = ligatures.Replace(text)

	// PDF-to-markdown converters leave inline HTML fragments behind
	if htmlTagRe.MatchString(text) {
		text = stripInlineHTML(text)
	}

	text = mdImageRe.ReplaceAllString(text, "")
	text = mdEmptyLinkRe.ReplaceAllString(text, "$1")

	text = bulletLeadRe.ReplaceAllString(text, "- ")
	text = bulletAnyRe.ReplaceAllString(text, "")

	text = hspaceRe.ReplaceAllString(text, " ")
	text = trailWSRe.ReplaceAllString(text, "")
	text = blankRunsRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// stripInlineHTML removes markup from lines carrying HTML tags, keeping
// only their visible text. Lines without tags pass through untouched so
// markdown structure survives.
func stripInlineHTML(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if htmlTagRe.MatchString(line) {
			lines[i] = visibleText(line)
		}
	}
	return strings.Join(lines, "\n")
}

// visibleText parses an HTML fragment and concatenates its text nodes,
// skipping script/style/noscript subtrees.
func visibleText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return htmlTagRe.ReplaceAllString(fragment, " ")
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
