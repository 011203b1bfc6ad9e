package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// LoadFromDirectory loads prompt overrides into the global registry.
// Expected structure:
//
//	baseDir/
//	  prompts/
//	    research/
//	      insights.json
func LoadFromDirectory(baseDir string) error {
	return Get().LoadDirectory(baseDir)
}

// LoadDirectory walks baseDir/prompts and registers every .json file.
func (r *Registry) LoadDirectory(baseDir string) error {
	dir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		rel, _ := filepath.Rel(dir, path)
		parts := strings.Split(strings.TrimSuffix(rel, ".json"), string(filepath.Separator))
		if pt.ID == "" {
			// research/insights.json -> research.insights
			pt.ID = strings.Join(parts, ".")
		}
		if pt.Category == "" {
			pt.Category = "default"
			if len(parts) > 1 {
				pt.Category = parts[0]
			}
		}
		return r.Register(&pt)
	})
}

// RenderUserPrompt executes the user prompt template with the given context.
// Declared variables absent from ctx take their default.
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	if pt.UserPromptTmpl == "" {
		return "", nil
	}
	if ctx == nil {
		ctx = NewContext()
	}
	for _, v := range pt.Variables {
		if _, ok := ctx.Variables[v.Name]; ok {
			continue
		}
		if v.Required && v.Default == "" {
			return "", fmt.Errorf("prompt %s: missing variable %s", pt.ID, v.Name)
		}
		ctx.Variables[v.Name] = v.Default
	}

	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
