package utils

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockElements = "p,br,div,li,ul,ol,h1,h2,h3,h4,h5,h6,tr,td,blockquote,pre,hr"

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces.
func StripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc.Find("script,style,head").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt shortens the text of content to at most maxLen runes, cutting at
// the last word boundary and appending "..." when anything was dropped.
func Excerpt(content string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultExcerptLength
	}

	text := StripHTML(content)
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}

	cut := string(r[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}

	return strings.TrimRight(cut, " ,.;:") + "..."
}

// TextToHTML wraps plain text into a paragraph, escaping markup.
func TextToHTML(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
