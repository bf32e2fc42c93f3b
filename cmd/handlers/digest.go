package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"daybrief/internal/config"
	"daybrief/internal/email"
	"daybrief/internal/logger"
	"daybrief/internal/pipeline"
)

// NewDigestCmd creates the digest command, the main entry point of the
// tool: one browsing export in, one markdown digest out.
func NewDigestCmd() *cobra.Command {
	var (
		output    string
		budgetTok int
		topN      int
		sendEmail bool
		model     string
		server    string
		skipCheck bool
	)

	cmd := &cobra.Command{
		Use:   "digest <browsing-export.json>",
		Short: "Generate a digest from a browsing export",
		Long: `Generate a 2-minute reading digest from one day's browsing export.

The export is repaired in place when its keys carry stray whitespace (the
original is kept next to it with a .bak suffix), summarized through the
configured generation backend, and written as digest-<date>.md.

Examples:
  # Digest today's export with a local llama.cpp server
  daybrief digest browsing-digest-2025-01-19.json

  # Send the digest to your inbox afterwards (requires settings.env)
  daybrief digest browsing-digest-2025-01-19.json --email

  # Custom output path and a tighter appendix
  daybrief digest data.json --output today.md --top-pages 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd.Context(), args[0], digestFlags{
				output:    output,
				budget:    budgetTok,
				topN:      topN,
				sendEmail: sendEmail,
				model:     model,
				server:    server,
				skipCheck: skipCheck,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output markdown file (default: digest-<date>.md in the output directory)")
	cmd.Flags().IntVar(&budgetTok, "budget", pipeline.DefaultMaxTokens, "Approximate token budget for the generation window")
	cmd.Flags().IntVarP(&topN, "top-pages", "t", pipeline.DefaultTopN, "Number of top pages in the links section")
	cmd.Flags().BoolVarP(&sendEmail, "email", "e", false, "Send the digest by email after generation")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model identifier override")
	cmd.Flags().StringVarP(&server, "server", "s", "", "llama.cpp server URL override")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip the pre-flight server reachability check")

	return cmd
}

type digestFlags struct {
	output    string
	budget    int
	topN      int
	sendEmail bool
	model     string
	server    string
	skipCheck bool
}

func runDigest(ctx context.Context, inputPath string, flags digestFlags) error {
	cfg := config.Get()

	// Fail early on missing email credentials instead of after minutes of
	// generation.
	var mailer *email.Mailer
	if flags.sendEmail {
		m, err := email.NewMailer(cfg.Email)
		if err != nil {
			return err
		}
		mailer = m
	}

	gateway, err := newGateway(ctx, cfg, flags.server, flags.model)
	if err != nil {
		return err
	}

	if !flags.skipCheck {
		if err := gateway.CheckHealth(ctx); err != nil {
			return fmt.Errorf("generation server pre-flight check failed (start llama.cpp with: ./server -c 4096 --port 8080): %w", err)
		}
	}

	result, err := pipeline.Run(ctx, gateway, pipeline.Options{
		InputPath:  inputPath,
		OutputDir:  cfg.Output.Directory,
		OutputPath: flags.output,
		MaxTokens:  flags.budget,
		TopN:       flags.topN,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Digest ready: %s\n", result.OutputPath)
	printPreview(result.Artifact.Content)

	if mailer != nil {
		subject := fmt.Sprintf("Daily Browsing Digest - %s", result.Artifact.Date)
		if err := mailer.Send(subject, result.Artifact.Content); err != nil {
			// The artifact is already on disk; delivery failure must not
			// destroy it, only fail the run.
			logger.Error("Email delivery failed, digest was still saved", err, "path", result.OutputPath)
			return err
		}
		fmt.Printf("Digest emailed to %s\n", cfg.Email.Receiver)
	}

	return nil
}
