package live

import (
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// sanitizeHTML does best-effort tag stripping and entity decoding for
// adapters that receive raw HTML.
func sanitizeHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return html.UnescapeString(stripTags(raw))
	}
	doc.Find("script, style, nav, footer, aside").Remove()
	text := strings.TrimSpace(doc.Text())
	return html.UnescapeString(text)
}

// htmlSnippetToMarkdown converts an HTML snippet to Markdown for adapter
// snippet sanitization.
func htmlSnippetToMarkdown(raw string) string {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(raw)
	if err != nil {
		return sanitizeHTML(raw)
	}
	return strings.TrimSpace(out)
}

func stripTags(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
