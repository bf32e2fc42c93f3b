package budget

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup reduces a page content excerpt to its text. Browser exports
// occasionally ship raw HTML fragments in the content field; feeding markup
// to the model wastes budget on tags. Plain text passes through untouched.
func StripMarkup(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style").Remove()
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return content
	}
	return strings.Join(strings.Fields(text), " ")
}
