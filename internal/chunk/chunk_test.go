package chunk

import (
	"strings"
	"testing"
)

func sampleText(paragraphs int) string {
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		b.WriteString("This is a paragraph about emissions reporting that carries enough text to be split into chunks when repeated. ")
		b.WriteString("It mentions Scope 1 and Scope 2 data and renewable energy figures.")
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func TestSplit_RespectsMaxChars(t *testing.T) {
	text := sampleText(50)
	opts := Options{MaxChars: 1000, Overlap: 100}

	chunks := Split(text, opts)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > opts.MaxChars {
			t.Errorf("Chunk %d exceeds max: %d chars", c.Index, len(c.Text))
		}
	}
}

func TestSplit_Roundtrip(t *testing.T) {
	text := sampleText(40)
	opts := Options{MaxChars: 900, Overlap: 150}

	chunks := Split(text, opts)
	got := Reassemble(chunks, opts.Overlap)
	if got != text {
		t.Errorf("Expected reassembly to reproduce input: lengths %d vs %d", len(got), len(text))
	}
}

func TestSplit_ExactOverlap(t *testing.T) {
	text := sampleText(40)
	opts := Options{MaxChars: 900, Overlap: 150}

	chunks := Split(text, opts)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		tail := prev[len(prev)-opts.Overlap:]
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("Chunk %d does not start with the previous chunk's overlap", i)
		}
	}
}

func TestSplit_OrderingPreserved(t *testing.T) {
	chunks := Split(sampleText(30), Options{MaxChars: 800, Overlap: 100})
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("Expected index %d, got %d", i, c.Index)
		}
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	text := sampleText(20)
	chunks := Split(text, Options{MaxChars: 1000, Overlap: 100})

	boundaryCuts := 0
	for i := 0; i < len(chunks)-1; i++ {
		if strings.HasSuffix(chunks[i].Text, "\n\n") || strings.HasSuffix(chunks[i].Text, ". ") {
			boundaryCuts++
		}
	}
	if boundaryCuts == 0 {
		t.Error("Expected at least some chunks to end on paragraph or sentence boundaries")
	}
}

func TestSplit_SmallInput(t *testing.T) {
	chunks := Split("short text", Options{MaxChars: 1000, Overlap: 100})
	if len(chunks) != 1 {
		t.Fatalf("Expected a single chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short text" {
		t.Errorf("Expected input unchanged, got %q", chunks[0].Text)
	}
}

func TestSplit_Empty(t *testing.T) {
	if chunks := Split("", DefaultOptions()); chunks != nil {
		t.Errorf("Expected nil for empty input, got %v", chunks)
	}
}

func TestSplit_DegenerateOverlap(t *testing.T) {
	// Overlap at or above half the max must be reduced, not loop forever
	chunks := Split(sampleText(40), Options{MaxChars: 400, Overlap: 400})
	if len(chunks) == 0 {
		t.Fatal("Expected chunks for degenerate overlap settings")
	}
	for _, c := range chunks {
		if len(c.Text) > 400 {
			t.Errorf("Chunk exceeds max: %d", len(c.Text))
		}
	}
}
