package prompt

import (
	"fmt"
	"sort"
	"sync"
	"text/template"
)

// Registry holds the loaded prompts.
type Registry struct {
	prompts map[string]*PromptTemplate
	mu      sync.RWMutex
}

// NewRegistry returns a registry seeded with the built-in prompts.
func NewRegistry() *Registry {
	r := &Registry{prompts: make(map[string]*PromptTemplate)}
	for _, pt := range builtins() {
		r.prompts[pt.ID] = pt
	}
	return r
}

var globalRegistry *Registry
var once sync.Once

// Get returns the process-wide registry.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register adds or replaces a prompt. The user template must parse.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	if _, err := template.New(pt.ID).Parse(pt.UserPromptTmpl); err != nil {
		return fmt.Errorf("prompt %s has an invalid template: %w", pt.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// ListPrompts returns all registered prompt IDs, sorted.
func (r *Registry) ListPrompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Reset drops loaded overrides and restores the built-ins.
func (r *Registry) Reset() {
	fresh := NewRegistry()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = fresh.prompts
}

// Render resolves a prompt and executes its user template.
func (r *Registry) Render(id string, ctx *PromptExecutionContext) (system, user string, pt *PromptTemplate, err error) {
	pt, err = r.GetPrompt(id)
	if err != nil {
		return "", "", nil, err
	}
	user, err = RenderUserPrompt(pt, ctx)
	if err != nil {
		return "", "", nil, err
	}
	return pt.SystemPrompt, user, pt, nil
}
