// Package export turns a project into its shareable forms: the JSON record,
// an executive Markdown report, the report as HTML, and a slide outline.
// Export is one-way; nothing here changes the project.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"valuecase/pkg/core/project"
	"valuecase/pkg/core/utils"
)

// Format names accepted by Parse.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatSlides   = "slides"
)

// ParseFormat validates an export format name. Empty means JSON.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatSlides:
		return FormatSlides, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// JSON serializes the full project record, indented for people to read.
func JSON(p *project.Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export project %s: %w", p.ID, err)
	}
	return data, nil
}

// ImportJSON reads a project record written by JSON. Hand-edited files in
// Hjson are accepted too. The result is normalized, so derived figures are
// recomputed from the imported inputs; a record without an id gets one.
func ImportJSON(data []byte) (*project.Project, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("import document is empty")
	}
	var p project.Project
	if err := utils.DecodeLenient(data, &p); err != nil {
		return nil, fmt.Errorf("failed to import project: %w", err)
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	p.Normalize()
	return &p, nil
}
