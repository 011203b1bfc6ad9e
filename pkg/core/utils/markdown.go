package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// CleanMarkdown strips an outer code fence so the text is ready to render.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		return StripCodeFence(cleaned)
	}
	return cleaned
}

// RenderMarkdown converts Markdown (with GFM tables) to an HTML fragment.
func RenderMarkdown(input string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("markdown render failed: %w", err)
	}
	return buf.String(), nil
}

// Headings returns the text of every heading at the given level.
func Headings(input string, level int) []string {
	src := []byte(input)
	doc := md.Parser().Parse(text.NewReader(src))
	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == level {
			out = append(out, string(h.Text(src)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

// ValidateMarkdown reports whether the text is non-empty and has at least
// one heading, which every analysis and report is expected to carry.
func ValidateMarkdown(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	for level := 1; level <= 3; level++ {
		if len(Headings(input, level)) > 0 {
			return true
		}
	}
	return false
}
