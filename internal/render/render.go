// Package render assembles the final digest artifact and writes it to disk.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"daybrief/internal/core"
	"daybrief/internal/rank"
)

// Metadata carries the header and provenance fields of a digest artifact.
// GeneratedAt is supplied by the caller so assembly stays a pure function
// of its inputs.
type Metadata struct {
	RunID            string
	Date             string
	GeneratedAt      time.Time
	PageCount        int
	TotalReadingTime float64
}

// Assemble combines the generated narrative, the ranked top-pages appendix,
// and run metadata into the final markdown document. Section order is
// fixed: title line, metadata lines, horizontal rule, narrative, horizontal
// rule, optional appendix, closing provenance note. With no ranked pages
// the appendix section is omitted entirely rather than rendered empty.
func Assemble(narrative string, topPages []core.PageVisit, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# 📚 Browsing Digest - %s\n\n", meta.Date))
	sb.WriteString(fmt.Sprintf("**Generated**: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**Pages analyzed**: %d\n", meta.PageCount))
	sb.WriteString(fmt.Sprintf("**Total reading time**: %.1f minutes\n\n", meta.TotalReadingTime))
	sb.WriteString("---\n\n")

	sb.WriteString(strings.TrimSpace(narrative))
	sb.WriteString("\n\n---\n")

	sb.WriteString(rank.RenderSection(topPages))

	sb.WriteString(fmt.Sprintf("\n*Generated locally by daybrief (run %s). No data left your machine.*\n", meta.RunID))

	return sb.String()
}

// DigestFilename derives the output filename from the record's date label,
// replacing anything outside [A-Za-z0-9-_] so an arbitrary label cannot
// escape into the filesystem.
func DigestFilename(date string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, date)
	return fmt.Sprintf("digest-%s.md", safe)
}

// WriteDigestToFile writes the assembled content to a file in the given
// directory, creating the directory if needed, and returns the full path.
func WriteDigestToFile(content, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest file %s: %w", filePath, err)
	}

	return filePath, nil
}
