package application

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	// CardExcerptLength and HeroExcerptLength are measured in runes
	CardExcerptLength = 120
	HeroExcerptLength = 260

	ellipsis = "…"
)

// RenderedContent is a post body prepared for display
type RenderedContent struct {
	HTML    []byte
	Snippet string
}

// ContentRenderer converts post content, written as markdown, to HTML.
type ContentRenderer interface {
	Render(content string) (*RenderedContent, error)
}

type MarkdownRenderer struct {
	renderer goldmark.Markdown
}

// NewMarkdownRenderer renders GitHub-flavoured markdown. Raw HTML in posts is escaped.
func NewMarkdownRenderer() *MarkdownRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &MarkdownRenderer{
		renderer: renderer,
	}
}

func (r *MarkdownRenderer) Render(content string) (*RenderedContent, error) {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(content), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &RenderedContent{
		HTML:    buf.Bytes(),
		Snippet: extractSnippet(content, CardExcerptLength),
	}, nil
}

// Excerpt cuts s to at most n runes, appending an ellipsis when something was cut
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + ellipsis
}

// extractSnippet returns the first paragraph of markdown text, cut to maxLength runes on a word boundary
func extractSnippet(markdown string, maxLength int) string {
	var paragraphLines []string

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		// code blocks, rules, lists and tables are not prose
		if strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "***") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	if len(paragraphLines) == 0 {
		return ""
	}

	snippet := strings.Join(paragraphLines, " ")
	if utf8.RuneCountInString(snippet) <= maxLength {
		return snippet
	}

	cut := string([]rune(snippet)[:maxLength])
	if lastSpace := strings.LastIndexAny(cut, " \t"); lastSpace > 0 {
		cut = cut[:lastSpace]
	}
	return cut + ellipsis
}
