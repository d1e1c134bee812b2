package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"docgen-backend/internal/shared/telemetry"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

const pageStyle = `body { font-family: Arial, sans-serif; margin: 20px; }
h1 { color: #333366; }
h2 { color: #333366; }
table { border-collapse: collapse; width: 100%; margin: 15px 0; }
th, td { border: 1px solid #ddd; padding: 8px; }
th { background-color: #f2f2f2; }
code { background-color: #f5f5f5; padding: 2px 4px; border-radius: 4px; }
pre { background-color: #f5f5f5; padding: 10px; border-radius: 4px; overflow-x: auto; }`

// renderHTMLPage converts markdown to a standalone styled HTML page used by
// the PDF and DOCX renderers.
func renderHTMLPage(title, markdown string) string {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &body); err != nil {
		telemetry.Warn("export: markdown render failed, using raw content", map[string]any{"error": err.Error()})
		body.Reset()
		body.WriteString("<pre>" + html.EscapeString(markdown) + "</pre>")
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`, html.EscapeString(title), pageStyle, body.String())
}
