package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinsRender(t *testing.T) {
	r := NewRegistry()
	ctx := NewContext().Set("KPIName", "Average Handling Time").Set("Industry", "Retail").Set("Platform", "CCaaS")
	system, user, pt, err := r.Render(PromptIDs.Benchmarks, ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if system == "" || !pt.JSONResponse {
		t.Error("benchmark prompt should have a system prompt and ask for JSON")
	}
	if !strings.Contains(user, "KPI: Average Handling Time") || !strings.Contains(user, "All sizes") {
		t.Errorf("unexpected user prompt:\n%s", user)
	}
}

func TestRender_MissingRequired(t *testing.T) {
	r := NewRegistry()
	if _, _, _, err := r.Render(PromptIDs.Insights, NewContext().Set("Industry", "Retail")); err == nil {
		t.Error("expected an error for a missing required variable")
	}
	if _, _, _, err := r.Render("nope", nil); err == nil {
		t.Error("expected an error for an unknown prompt")
	}
}

func TestLoadDirectory_Overrides(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "prompts", "research")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	override := `{"system_prompt":"custom","user_prompt_template":"Industry={{.Industry}}"}`
	if err := os.WriteFile(filepath.Join(dir, "insights.json"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	before := r.Count()
	if err := r.LoadDirectory(base); err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Count() != before {
		t.Errorf("override should replace, not add: %d -> %d", before, r.Count())
	}
	pt, _ := r.GetPrompt(PromptIDs.Insights)
	if pt.SystemPrompt != "custom" || pt.Category != "research" {
		t.Errorf("override not applied: %+v", pt)
	}

	r.Reset()
	pt, _ = r.GetPrompt(PromptIDs.Insights)
	if pt.SystemPrompt == "custom" {
		t.Error("Reset should restore the built-in prompt")
	}
}

func TestLoadDirectory_Missing(t *testing.T) {
	if err := NewRegistry().LoadDirectory(t.TempDir()); err == nil {
		t.Error("expected an error when the prompts directory is absent")
	}
}

func TestRegister_InvalidTemplate(t *testing.T) {
	if err := NewRegistry().Register(&PromptTemplate{ID: "x", UserPromptTmpl: "{{.Broken"}); err == nil {
		t.Error("expected a template parse error")
	}
}
