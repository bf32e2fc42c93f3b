package rank

import (
	"strings"
	"testing"

	"daybrief/internal/core"
)

func TestTopPages_Filter(t *testing.T) {
	pages := []core.PageVisit{
		// Valid URL but negligible engagement on both axes: excluded.
		{URL: "https://example.com/a", Title: "A", ReadingTime: 0, Content: strings.Repeat("x", 50)},
		// Engagement via reading time alone: included.
		{URL: "https://example.com/b", Title: "B", ReadingTime: 0.6},
		// Engagement via content length alone: included.
		{URL: "https://example.com/c", Title: "C", Content: strings.Repeat("x", 101)},
		// No http scheme: excluded regardless of engagement.
		{URL: "ftp://example.com/d", Title: "D", ReadingTime: 9},
		// Empty URL: excluded.
		{Title: "E", ReadingTime: 9},
	}

	got := TopPages(pages, 10)
	if len(got) != 2 {
		t.Fatalf("Expected 2 qualifying pages, got %d", len(got))
	}
	for _, p := range got {
		if p.Title == "A" || p.Title == "D" || p.Title == "E" {
			t.Errorf("Page %q should have been filtered out", p.Title)
		}
	}
}

func TestTopPages_OrderingDeterminism(t *testing.T) {
	pages := []core.PageVisit{
		{URL: "https://a.example", Domain: "a.example", Title: "A", ReadingTime: 10, Content: strings.Repeat("x", 20)},
		{URL: "https://b.example", Domain: "b.example", Title: "B", ReadingTime: 10, Content: strings.Repeat("x", 50)},
		{URL: "https://c.example", Domain: "c.example", Title: "C", ReadingTime: 5, Content: strings.Repeat("x", 100)},
	}

	got := TopPages(pages, 10)
	if len(got) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(got))
	}
	// Reading-time tie between A and B broken by content length.
	if got[0].Title != "B" || got[1].Title != "A" || got[2].Title != "C" {
		t.Errorf("Expected order [B A C], got [%s %s %s]", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestTopPages_Dedup(t *testing.T) {
	pages := []core.PageVisit{
		{URL: "https://example.com/1", Domain: "example.com", Title: "Shared Title", ReadingTime: 2},
		{URL: "https://example.com/2", Domain: "example.com", Title: "Shared Title", ReadingTime: 7},
	}

	got := TopPages(pages, 10)
	if len(got) != 1 {
		t.Fatalf("Expected duplicates merged to 1 entry, got %d", len(got))
	}
	if got[0].ReadingTime != 7 {
		t.Errorf("Expected the higher-engagement duplicate to win, got %.1f min", got[0].ReadingTime)
	}
}

func TestTopPages_DedupTieByContentLength(t *testing.T) {
	pages := []core.PageVisit{
		{URL: "https://example.com/1", Domain: "example.com", Title: "Shared", ReadingTime: 3, Content: strings.Repeat("x", 10)},
		{URL: "https://example.com/2", Domain: "example.com", Title: "Shared", ReadingTime: 3, Content: strings.Repeat("x", 500)},
	}

	got := TopPages(pages, 10)
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if len(got[0].Content) != 500 {
		t.Error("On a reading-time tie, the longer-content duplicate should win")
	}
}

func TestTopPages_Truncation(t *testing.T) {
	var pages []core.PageVisit
	for i := 0; i < 30; i++ {
		pages = append(pages, core.PageVisit{
			URL:         "https://example.com/" + string(rune('a'+i)),
			Domain:      "domain" + string(rune('a'+i)) + ".example",
			Title:       "Title " + string(rune('a'+i)),
			ReadingTime: float64(30 - i),
		})
	}

	got := TopPages(pages, 15)
	if len(got) != 15 {
		t.Errorf("Expected exactly topN=15 entries, got %d", len(got))
	}
	if got[0].ReadingTime != 30 {
		t.Errorf("Expected highest engagement first, got %.1f", got[0].ReadingTime)
	}
}

func TestTopPages_EmptyResult(t *testing.T) {
	if got := TopPages(nil, 5); got != nil {
		t.Errorf("Expected nil for no pages, got %v", got)
	}
	pages := []core.PageVisit{{URL: "", ReadingTime: 10}}
	if got := TopPages(pages, 5); len(got) != 0 {
		t.Errorf("Expected empty result when nothing qualifies, got %v", got)
	}
}

func TestRenderSection_Empty(t *testing.T) {
	if got := RenderSection(nil); got != "" {
		t.Errorf("Expected empty string for no pages, got %q", got)
	}
}

func TestRenderSection_Format(t *testing.T) {
	pages := []core.PageVisit{
		{URL: "https://example.com/long", Title: "Deep Dive", ReadingTime: 6.25},
		{URL: "https://example.com/mid", Title: "Skim [notes]", ReadingTime: 3},
		{URL: "https://example.com/short", Title: "Glance", ReadingTime: 0.7},
	}

	out := RenderSection(pages)
	if !strings.Contains(out, "## 🔗 Top Pages Visited") {
		t.Error("Section should carry the fixed heading")
	}
	if !strings.Contains(out, "(top 3)") {
		t.Error("Description should state the count shown")
	}
	if !strings.Contains(out, "1. 🕗 [Deep Dive](https://example.com/long) — **6.2 min**") {
		t.Errorf("Long-tier entry malformed:\n%s", out)
	}
	if !strings.Contains(out, `2. 🕓 [Skim \[notes\]](https://example.com/mid) — **3.0 min**`) {
		t.Errorf("Medium-tier entry should escape brackets in title:\n%s", out)
	}
	if !strings.Contains(out, "3. 🕑 [Glance](https://example.com/short) — **0.7 min**") {
		t.Errorf("Short-tier entry malformed:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n---\n") {
		t.Error("Section should end with a closing separator")
	}
}

func TestEscapeTitle(t *testing.T) {
	in := "A [B] (C) <D>"
	want := `A \[B\] \(C\) &lt;D&gt;`
	if got := EscapeTitle(in); got != want {
		t.Errorf("EscapeTitle(%q) = %q, want %q", in, got, want)
	}
}
