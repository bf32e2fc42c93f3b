package core

import (
	"strings"
	"time"
)

// BrowsingRecord is the root structure of one day's browsing export.
type BrowsingRecord struct {
	Date       string      `json:"date"`                 // Day label, used verbatim in output and filenames
	Pages      []PageVisit `json:"pages"`                // Visited pages, input order carries no meaning
	TotalPages int         `json:"totalPages,omitempty"` // Reported count; 0 means "not reported"
}

// PageVisit is a single visited page from the export.
type PageVisit struct {
	URL         string  `json:"url"`         // Page URL, expected to start with an http scheme
	Title       string  `json:"title"`       // Page title (may be empty)
	Domain      string  `json:"domain"`      // Page domain (may be empty)
	Content     string  `json:"content"`     // Page body excerpt (may be empty)
	Timestamp   string  `json:"timestamp"`   // Visit time in extended ISO-8601 form
	ReadingTime float64 `json:"readingTime"` // Minutes of engagement
}

// DigestArtifact is the assembled output of one digest run.
type DigestArtifact struct {
	ID          string      // Run identifier
	Date        string      // Day label from the record
	GeneratedAt time.Time   // Supplied by the caller, not computed during assembly
	PageCount   int         // Total pages analyzed
	ReadingTime float64     // Total reading minutes across all pages
	Narrative   string      // Model-generated digest body
	TopPages    []PageVisit // Ranked, deduplicated appendix entries
	Content     string      // Final rendered markdown
}

const (
	// UntitledLabel substitutes for a missing page title.
	UntitledLabel = "Untitled"
	// UnknownDomainLabel substitutes for a missing page domain.
	UnknownDomainLabel = "Unknown"
	// UnknownTimeLabel substitutes for an unparsable visit timestamp.
	UnknownTimeLabel = "Unknown time"
)

// DisplayTitle returns the page title, or a placeholder when it is empty.
func (p PageVisit) DisplayTitle() string {
	if p.Title == "" {
		return UntitledLabel
	}
	return p.Title
}

// DisplayDomain returns the page domain, or a placeholder when it is empty.
func (p PageVisit) DisplayDomain() string {
	if p.Domain == "" {
		return UnknownDomainLabel
	}
	return p.Domain
}

// timestampLayouts are tried in order when parsing visit timestamps.
// Exports use extended ISO-8601, sometimes without an offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// VisitTime parses the visit timestamp. The second return value reports
// whether parsing succeeded; callers must fall back to UnknownTimeLabel
// instead of failing the run.
func (p PageVisit) VisitTime() (time.Time, bool) {
	ts := strings.TrimSpace(p.Timestamp)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DedupKey derives the ranking identity of a page: lowercased domain plus
// the first 50 characters of the lowercased title. Two distinct URLs with
// matching domain and title prefix collapse to one appendix entry. That is
// a deliberate trade-off carried over from the export tooling, not a bug.
func (p PageVisit) DedupKey() string {
	title := strings.ToLower(strings.TrimSpace(p.Title))
	if len(title) > 50 {
		title = title[:50]
	}
	domain := strings.ToLower(strings.TrimSpace(p.Domain))
	return domain + ":" + title
}

// HasHTTPURL reports whether the page has a usable http(s) URL.
func (p PageVisit) HasHTTPURL() bool {
	return strings.HasPrefix(strings.TrimSpace(p.URL), "http")
}

// PageCount returns the reported page count, falling back to the number of
// pages actually present.
func (r BrowsingRecord) PageCount() int {
	if r.TotalPages > 0 {
		return r.TotalPages
	}
	return len(r.Pages)
}

// TotalReadingTime sums engagement minutes across all pages.
func (r BrowsingRecord) TotalReadingTime() float64 {
	var total float64
	for _, p := range r.Pages {
		total += p.ReadingTime
	}
	return total
}

// EngagementTier buckets a page's reading time for display.
type EngagementTier string

const (
	TierLong   EngagementTier = "long"   // 5 minutes or more
	TierMedium EngagementTier = "medium" // 2 to 5 minutes
	TierShort  EngagementTier = "short"  // under 2 minutes
)

// TierFor maps reading minutes onto the three engagement tiers.
func TierFor(minutes float64) EngagementTier {
	switch {
	case minutes >= 5:
		return TierLong
	case minutes >= 2:
		return TierMedium
	default:
		return TierShort
	}
}

// Marker returns the symbolic indicator rendered next to an appendix entry.
func (t EngagementTier) Marker() string {
	switch t {
	case TierLong:
		return "🕗"
	case TierMedium:
		return "🕓"
	default:
		return "🕑"
	}
}
