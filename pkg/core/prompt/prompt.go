// Package prompt keeps the prompt library used by the research fetchers.
// Built-in prompts are always registered; JSON files under a resources
// directory can override them without a rebuild.
package prompt

// PromptTemplate is a reusable prompt with metadata.
type PromptTemplate struct {
	ID             string           `json:"id"`                   // e.g. "research.insights"
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	SystemPrompt   string           `json:"system_prompt"`
	UserPromptTmpl string           `json:"user_prompt_template"` // text/template source
	JSONResponse   bool             `json:"json_response"`
	Variables      []PromptVariable `json:"variables"`
	Version        string           `json:"version"`
}

// PromptVariable documents one template variable.
type PromptVariable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     string `json:"default"`
}

// PromptExecutionContext holds runtime values for template substitution.
type PromptExecutionContext struct {
	Variables map[string]interface{}
}

func NewContext() *PromptExecutionContext {
	return &PromptExecutionContext{
		Variables: make(map[string]interface{}),
	}
}

// Set adds a variable and returns the context for chaining.
func (c *PromptExecutionContext) Set(key string, value interface{}) *PromptExecutionContext {
	c.Variables[key] = value
	return c
}
