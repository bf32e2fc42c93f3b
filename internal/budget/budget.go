// Package budget linearizes a day's page visits into a single text blob
// bounded by an approximate token budget, ready for a generation call.
package budget

import (
	"fmt"
	"sort"
	"strings"

	"daybrief/internal/core"
)

const (
	// tokensPerChar is the rough cost estimate used to stay inside a
	// model's context window: about one token per four characters.
	tokensPerChar = 0.25
	// maxContentChars caps the per-page content excerpt.
	maxContentChars = 1000
)

// PrepareContent renders pages in ascending timestamp order into fixed-shape
// blocks and greedily accumulates them while the estimated token total stays
// within maxTokens. Accumulation stops at the first block that would exceed
// the budget; later pages are omitted. Pages with unparsable timestamps sort
// by their raw timestamp string, which keeps ISO-8601 values chronological
// and everything else stable.
//
// This never fails: with no pages (or a budget too small for the first
// block) it returns the empty string, which callers must treat as nothing
// to summarize.
func PrepareContent(pages []core.PageVisit, maxTokens int) string {
	if len(pages) == 0 {
		return ""
	}

	ordered := make([]core.PageVisit, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	var blocks []string
	var estimated float64
	for _, page := range ordered {
		block := renderBlock(page)
		cost := float64(len(block)) * tokensPerChar
		if estimated+cost > float64(maxTokens) {
			break
		}
		blocks = append(blocks, block)
		estimated += cost
	}

	return strings.Join(blocks, "\n")
}

// renderBlock formats one page visit as a bounded text block.
func renderBlock(page core.PageVisit) string {
	timeStr := core.UnknownTimeLabel
	if t, ok := page.VisitTime(); ok {
		timeStr = t.Format("15:04")
	}

	content := truncate(StripMarkup(page.Content), maxContentChars)

	return fmt.Sprintf("\n---\n[%s] %s\nSource: %s\nContent: %s\n",
		timeStr, page.DisplayTitle(), page.DisplayDomain(), content)
}

// truncate limits s to n runes without splitting a multi-byte character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
