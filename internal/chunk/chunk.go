package chunk

import (
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Options bound the chunker. MaxChars is a hard upper limit on chunk
// length; Overlap is the exact number of characters consecutive chunks
// share.
type Options struct {
	MaxChars int
	Overlap  int
}

// DefaultOptions matches the original extraction pipeline's buffer size
func DefaultOptions() Options {
	return Options{MaxChars: 6000, Overlap: 200}
}

// Split cuts normalized text into overlapping windows, preferring to end
// a chunk at a paragraph break, else a sentence break. Guarantees: no
// chunk exceeds MaxChars; consecutive chunks overlap by exactly Overlap
// characters except the final one; dropping the overlap prefix of every
// chunk after the first reconstructs the input.
func Split(text string, opts Options) []model.Chunk {
	if opts.MaxChars <= 0 {
		opts = DefaultOptions()
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}
	if opts.Overlap*2 >= opts.MaxChars {
		// A break point can land at half the window; the overlap must stay
		// below that or the cursor stops advancing.
		opts.Overlap = opts.MaxChars / 4
	}
	if text == "" {
		return nil
	}

	var chunks []model.Chunk
	start := 0
	for start < len(text) {
		end := start + opts.MaxChars
		if end >= len(text) {
			chunks = append(chunks, model.Chunk{Index: len(chunks), Text: text[start:]})
			break
		}
		end = breakPoint(text, start, end)
		chunks = append(chunks, model.Chunk{Index: len(chunks), Text: text[start:end]})
		start = end - opts.Overlap
	}
	return chunks
}

// breakPoint finds the best cut position in (start, limit]: the last
// paragraph break in the window's second half, else the last sentence
// break, else the hard limit.
func breakPoint(text string, start, limit int) int {
	window := text[start:limit]
	half := len(window) / 2

	if i := strings.LastIndex(window, "\n\n"); i >= half {
		return start + i + 2
	}
	if i := strings.LastIndex(window, ". "); i >= half {
		return start + i + 2
	}
	if i := strings.LastIndex(window, "\n"); i >= half {
		return start + i + 1
	}
	return limit
}

// Reassemble concatenates chunks with overlaps removed. Inverse of Split
// for the same overlap; used to verify chunking round-trips.
func Reassemble(chunks []model.Chunk, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Text)
			continue
		}
		if overlap < len(c.Text) {
			b.WriteString(c.Text[overlap:])
		}
	}
	return b.String()
}
