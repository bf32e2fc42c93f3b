// Package rank selects and renders the "Top Pages Visited" appendix: a
// deduplicated list of the day's pages ordered by engagement.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"daybrief/internal/core"
)

// minReadingMinutes and minContentChars gate negligible-engagement pages
// out of the appendix.
const (
	minReadingMinutes = 0.5
	minContentChars   = 100
)

// TopPages returns at most topN pages ordered by reading time (descending),
// ties broken by content length (descending). Pages qualify only with an
// http(s) URL and meaningful engagement. Duplicates by domain + 50-char
// title prefix are merged, keeping the first occurrence under the sort
// order. The sort is stable, so repeated runs on identical input produce
// identical output. An empty result is a valid outcome, never an error.
func TopPages(pages []core.PageVisit, topN int) []core.PageVisit {
	var valid []core.PageVisit
	for _, p := range pages {
		if !p.HasHTTPURL() {
			continue
		}
		if p.ReadingTime > minReadingMinutes || len(p.Content) > minContentChars {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].ReadingTime != valid[j].ReadingTime {
			return valid[i].ReadingTime > valid[j].ReadingTime
		}
		return len(valid[i].Content) > len(valid[j].Content)
	})

	seen := make(map[string]struct{}, len(valid))
	var unique []core.PageVisit
	for _, p := range valid {
		key := p.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
		if len(unique) >= topN {
			break
		}
	}
	return unique
}

// RenderSection renders the selected pages as a markdown section with a
// fixed heading, a one-line description stating the count shown, one
// numbered entry per page, and a closing separator. Returns the empty
// string when there are no pages, so callers can omit the section.
func RenderSection(pages []core.PageVisit) string {
	if len(pages) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n## 🔗 Top Pages Visited\n\n")
	sb.WriteString(fmt.Sprintf("*Pages sorted by time spent (top %d):*\n\n", len(pages)))

	for i, p := range pages {
		marker := core.TierFor(p.ReadingTime).Marker()
		sb.WriteString(fmt.Sprintf("%d. %s [%s](%s) — **%.1f min**\n",
			i+1, marker, EscapeTitle(strings.TrimSpace(p.DisplayTitle())), strings.TrimSpace(p.URL), p.ReadingTime))
	}

	sb.WriteString("\n---\n")
	return sb.String()
}

var titleEscaper = strings.NewReplacer(
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"<", "&lt;",
	">", "&gt;",
)

// EscapeTitle neutralizes characters that would corrupt a markdown link
// label. The URL side of the link is embedded as-is.
func EscapeTitle(title string) string {
	return titleEscaper.Replace(title)
}
