// Package llm provides the generation gateway: the external text-generation
// capability that turns budgeted browsing content into a narrative digest.
package llm

import (
	"context"
	"fmt"
)

// SystemPrompt frames every generation request.
const SystemPrompt = "You are a personal assistant that creates concise daily browsing digests. " +
	"Keep responses focused, useful, and skip fluff."

// DigestPromptTemplate is the fixed prompt for digest generation. The two
// placeholders are the record's date label and the budgeted content blob.
const DigestPromptTemplate = `Below is a log of web pages I visited on %s. Create a 2-minute reading digest that:
1. **Main Themes**: What topics did I spend time on today? (2-3 bullet points)
2. **Key Insights**: What are the most important things I learned? (3-5 bullet points)
3. **Action Items**: Any tasks, ideas, or follow-ups worth noting? (if applicable)
4. **Time Analysis**: Brief observation about my browsing patterns
Keep it conversational and useful. Skip the fluff.
---
BROWSING LOG:
%s
---
Now write my digest:`

// Gateway is the text-generation capability consumed by the pipeline. Any
// non-success outcome is fatal to the current run; the pipeline never
// retries mid-call.
type Gateway interface {
	// Generate produces the narrative for one day's budgeted content.
	Generate(ctx context.Context, content, date string) (string, error)
	// CheckHealth reports whether the backing service is reachable.
	CheckHealth(ctx context.Context) error
}

// GatewayError is returned for any gateway failure: connection refused,
// timeout, unusable response, or empty completion.
type GatewayError struct {
	Cause string
	Err   error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation gateway: %s: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("generation gateway: %s", e.Cause)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// buildPrompt renders the digest prompt for a date and content blob.
func buildPrompt(content, date string) string {
	return fmt.Sprintf(DigestPromptTemplate, date, content)
}
