package pages

import "testing"

func TestSegment_HeadingMarkers(t *testing.T) {
	text := "### Page 1 - Introduction\nWelcome text here.\n### Page 2\nSecond page body."
	pgs := Segment(text)

	if len(pgs) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pgs))
	}
	if pgs[0].Number != 1 || pgs[0].Title != "Introduction" {
		t.Errorf("Expected page 1 titled Introduction, got %d %q", pgs[0].Number, pgs[0].Title)
	}
	if pgs[1].Number != 2 || pgs[1].Title != "" {
		t.Errorf("Expected untitled page 2, got %d %q", pgs[1].Number, pgs[1].Title)
	}
}

func TestSegment_DividerMarkers(t *testing.T) {
	text := "--- Page 4 ---\nbody four\n\n--- Page 5 ---\nbody five"
	pgs := Segment(text)

	if len(pgs) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pgs))
	}
	if pgs[0].Number != 4 || pgs[1].Number != 5 {
		t.Errorf("Expected pages 4 and 5, got %d and %d", pgs[0].Number, pgs[1].Number)
	}
}

func TestSegment_LabelMarkers(t *testing.T) {
	text := "Page 7: Energy\nRenewable energy rose.\nPage 8: Waste\nWaste fell."
	pgs := Segment(text)

	if len(pgs) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pgs))
	}
	if pgs[0].Title != "Energy" || pgs[1].Title != "Waste" {
		t.Errorf("Expected inline titles, got %q and %q", pgs[0].Title, pgs[1].Title)
	}
}

func TestSegment_PreambleDropped(t *testing.T) {
	text := "conversion preamble noise\n### Page 1\nreal content"
	pgs := Segment(text)

	if len(pgs) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(pgs))
	}
	for _, line := range pgs[0].Lines {
		if line == "conversion preamble noise" {
			t.Error("Expected preamble to be dropped")
		}
	}
}

func TestSegment_NoMarkers(t *testing.T) {
	text := "just a plain document\nwith two lines"
	pgs := Segment(text)

	if len(pgs) != 1 {
		t.Fatalf("Expected single unmarked page, got %d pages", len(pgs))
	}
	if pgs[0].Number != 0 {
		t.Errorf("Expected page number 0 for unmarked page, got %d", pgs[0].Number)
	}
	if len(pgs[0].Lines) != 2 {
		t.Errorf("Expected whole document kept, got %d lines", len(pgs[0].Lines))
	}
}

func TestSegment_Empty(t *testing.T) {
	if pgs := Segment(""); pgs != nil {
		t.Errorf("Expected nil for empty input, got %v", pgs)
	}
}

func TestSegment_MonotonicNumbers(t *testing.T) {
	// Malformed input with a backwards marker must not break ordering
	text := "### Page 5\nfive\n### Page 3\nthree\n### Page 6\nsix"
	pgs := Segment(text)

	if len(pgs) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pgs))
	}
	prev := 0
	for _, p := range pgs {
		if p.Number < prev {
			t.Errorf("Expected non-decreasing page numbers, got %d after %d", p.Number, prev)
		}
		prev = p.Number
	}
}

func TestSegment_MixedMarkerForms(t *testing.T) {
	text := "### Page 1\none\n--- Page 2 ---\ntwo\nPage 3: Title\nthree"
	pgs := Segment(text)

	if len(pgs) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pgs))
	}
	if pgs[2].Number != 3 || pgs[2].Title != "Title" {
		t.Errorf("Expected label marker parsed, got %d %q", pgs[2].Number, pgs[2].Title)
	}
}
