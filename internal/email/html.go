package email

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// emailCSS keeps the rendered digest readable in mail clients: a centered
// column, system fonts, and muted link styling.
const emailCSS = `
body {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  line-height: 1.6;
  color: #333;
  max-width: 800px;
  margin: 20px auto;
  padding: 20px;
  background-color: #f9f9f9;
}
.container {
  background-color: white;
  border-radius: 10px;
  padding: 30px;
  box-shadow: 0 2px 10px rgba(0,0,0,0.05);
}
h1, h2, h3 { color: #2c3e50; margin-top: 1.5em; }
h1 { border-bottom: 2px solid #eee; padding-bottom: 10px; }
a { color: #3498db; text-decoration: none; }
a:hover { text-decoration: underline; }
ul, ol { padding-left: 20px; }
li { margin-bottom: 8px; }
.footer {
  margin-top: 30px;
  padding-top: 20px;
  border-top: 1px solid #eee;
  color: #777;
  font-size: 0.9em;
}
`

// RenderHTML converts a markdown digest into a complete styled HTML
// document suitable for the HTML part of a digest email.
func RenderHTML(markdownText string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	body := markdown.ToHTML([]byte(markdownText), mdParser, renderer)

	return fmt.Sprintf(`<html>
<head>
<meta charset="UTF-8">
<style>%s</style>
</head>
<body>
<div class="container">
%s
<div class="footer">
<p>📧 Sent automatically from your local browsing digest generator</p>
<p>🔒 100%% private – processed entirely on your machine</p>
</div>
</div>
</body>
</html>
`, emailCSS, body)
}
