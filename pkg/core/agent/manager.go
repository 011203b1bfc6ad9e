// Package agent routes prompts for each research task to the configured
// LLM provider.
package agent

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"valuecase/pkg/core/llm"
)

// Agent types that can carry their own provider override.
const (
	Insights           = "insights"
	Benchmarks         = "benchmarks"
	AssumptionAnalysis = "assumption_analysis"
	Assistant          = "assistant"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider" json:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents" json:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider" json:"provider,omitempty"` // Optional override
	Model       string `yaml:"model" json:"model,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// DefaultConfig is used when no config file is present.
func DefaultConfig() Config {
	return Config{
		ActiveProvider: "openai",
		Agents: map[string]AgentConfig{
			Insights:           {Description: "Industry use cases, challenges and opportunities"},
			Benchmarks:         {Description: "KPI benchmarks by company size"},
			AssumptionAnalysis: {Description: "Streamed review of the entered assumptions"},
			Assistant:          {Description: "Maps free-text requests onto wizard stages"},
		},
	}
}

// LoadConfig reads a YAML model config. A missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read model config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse model config %s: %w", path, err)
	}
	return cfg, nil
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"openai":   &llm.OpenAIProvider{},
			"gemini":   &llm.GeminiStreamProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"qwen":     &llm.QwenProvider{},
		},
	}
}

// Register adds or replaces a provider under name.
func (m *Manager) Register(name string, p llm.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[name] = p
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["openai"]
}

// GetProviderByName retrieves a provider instance by its name (e.g. "deepseek", "gemini").
func (m *Manager) GetProviderByName(name string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[name]
}

func (m *Manager) options(agentType string, options map[string]interface{}) map[string]interface{} {
	m.mu.RLock()
	model := m.config.Agents[agentType].Model
	m.mu.RUnlock()

	out := make(map[string]interface{}, len(options)+1)
	if model != "" {
		out[llm.OptModel] = model
	}
	for k, v := range options {
		out[k] = v
	}
	return out
}

// ExecutePrompt adapts the system prompt for the agent's provider and runs it.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)
	if provider == nil {
		return "", fmt.Errorf("no provider configured for %s", agentType)
	}
	return provider.GenerateResponse(ctx, rawPrompt, provider.AdaptInstructions(rawSystemPrompt), m.options(agentType, options))
}

// StreamPrompt is ExecutePrompt delivered in chunks.
func (m *Manager) StreamPrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}, onChunk func(string) error) error {
	provider := m.GetProvider(agentType)
	if provider == nil {
		return fmt.Errorf("no provider configured for %s", agentType)
	}
	return llm.Stream(ctx, provider, rawPrompt, provider.AdaptInstructions(rawSystemPrompt), m.options(agentType, options), onChunk)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Providers lists the registered provider names in order.
func (m *Manager) Providers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for k := range m.providers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := Config{ActiveProvider: m.config.ActiveProvider, Agents: make(map[string]AgentConfig, len(m.config.Agents))}
	for k, v := range m.config.Agents {
		c.Agents[k] = v
	}
	return c
}
