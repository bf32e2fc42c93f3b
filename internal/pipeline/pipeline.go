// Package pipeline orchestrates one digest run: load and repair the
// record, budget its content, generate the narrative, rank the top pages,
// assemble the artifact, and write it out. Every stage consumes the
// complete output of its predecessor; a failed stage aborts the run and no
// partial artifact is ever written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"daybrief/internal/budget"
	"daybrief/internal/core"
	"daybrief/internal/llm"
	"daybrief/internal/logger"
	"daybrief/internal/rank"
	"daybrief/internal/record"
	"daybrief/internal/render"
)

const (
	// DefaultMaxTokens is the approximate generation-window budget.
	DefaultMaxTokens = 4000
	// DefaultTopN bounds the top-pages appendix.
	DefaultTopN = 15
)

// ErrNoPages means the record held no page visits at all.
var ErrNoPages = errors.New("no browsing data found in the record")

// ErrNoContent means budgeting produced nothing to summarize; the run
// stops before the generation gateway is ever invoked.
var ErrNoContent = errors.New("no content to summarize")

// Options configures a single digest run.
type Options struct {
	InputPath  string
	OutputDir  string
	OutputPath string           // overrides OutputDir + derived filename when set
	MaxTokens  int              // 0 means DefaultMaxTokens
	TopN       int              // 0 means DefaultTopN
	Now        func() time.Time // clock, injectable for tests
}

// Result reports a completed run.
type Result struct {
	Artifact   core.DigestArtifact
	OutputPath string
	Repaired   bool
}

// Run executes the full pipeline once against the given gateway.
func Run(ctx context.Context, gateway llm.Gateway, opts Options) (*Result, error) {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.TopN == 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rec, repaired, err := record.Load(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("loading record: %w", err)
	}
	if len(rec.Pages) == 0 {
		return nil, ErrNoPages
	}

	logger.Info("Loaded browsing record",
		"date", rec.Date,
		"pages", rec.PageCount(),
		"reading_minutes", rec.TotalReadingTime(),
		"repaired", repaired)

	content := budget.PrepareContent(rec.Pages, opts.MaxTokens)
	if content == "" {
		return nil, ErrNoContent
	}

	logger.Info("Generating digest narrative", "budget_tokens", opts.MaxTokens)
	narrative, err := gateway.Generate(ctx, content, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("generating narrative: %w", err)
	}

	topPages := rank.TopPages(rec.Pages, opts.TopN)
	logger.Info("Ranked top pages", "selected", len(topPages), "top_n", opts.TopN)

	meta := render.Metadata{
		RunID:            uuid.NewString(),
		Date:             rec.Date,
		GeneratedAt:      opts.Now(),
		PageCount:        rec.PageCount(),
		TotalReadingTime: rec.TotalReadingTime(),
	}
	assembled := render.Assemble(narrative, topPages, meta)

	artifact := core.DigestArtifact{
		ID:          meta.RunID,
		Date:        rec.Date,
		GeneratedAt: meta.GeneratedAt,
		PageCount:   meta.PageCount,
		ReadingTime: meta.TotalReadingTime,
		Narrative:   narrative,
		TopPages:    topPages,
		Content:     assembled,
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		path, err := render.WriteDigestToFile(assembled, opts.OutputDir, render.DigestFilename(rec.Date))
		if err != nil {
			return nil, fmt.Errorf("writing artifact: %w", err)
		}
		outputPath = path
	} else {
		if err := os.WriteFile(outputPath, []byte(assembled), 0644); err != nil {
			return nil, fmt.Errorf("writing artifact: %w", err)
		}
	}

	logger.Info("Digest written", "path", outputPath, "run_id", meta.RunID)
	return &Result{Artifact: artifact, OutputPath: outputPath, Repaired: repaired}, nil
}
