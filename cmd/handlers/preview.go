package handlers

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// previewChars bounds the terminal preview of a generated digest.
const previewChars = 600

var (
	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12")).
				MarginTop(1)

	previewBodyStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1).
				Width(88)
)

// printPreview shows the first previewChars of the digest in a bordered
// box so a run finishing in a terminal gives immediate feedback.
func printPreview(content string) {
	preview := content
	if len(preview) > previewChars {
		runes := []rune(preview)
		if len(runes) > previewChars {
			preview = string(runes[:previewChars]) + "..."
		}
	}

	fmt.Println(previewTitleStyle.Render("Preview"))
	fmt.Println(previewBodyStyle.Render(preview))
}
