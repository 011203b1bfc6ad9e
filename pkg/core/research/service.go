package research

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"valuecase/pkg/core/prompt"
)

// Generator runs prompts for a named agent. agent.Manager implements it.
type Generator interface {
	ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error)
	StreamPrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}, onChunk func(string) error) error
}

// Service fetches research through a Generator. A nil Generator makes
// every fetch return its static fallback.
type Service struct {
	gen     Generator
	prompts *prompt.Registry
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]Benchmark
}

type Option func(*Service)

// WithTimeout bounds each provider call. The default is 45 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithPrompts uses a specific prompt registry instead of the global one.
func WithPrompts(r *prompt.Registry) Option {
	return func(s *Service) { s.prompts = r }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		timeout: 45 * time.Second,
		now:     time.Now,
		cache:   make(map[string]Benchmark),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompts == nil {
		s.prompts = prompt.Get()
	}
	return s
}

func (s *Service) render(id string, vars *prompt.PromptExecutionContext) (system, user string, options map[string]interface{}, err error) {
	system, user, pt, err := s.prompts.Render(id, vars)
	if err != nil {
		return "", "", nil, err
	}
	options = map[string]interface{}{}
	if pt.JSONResponse {
		options["json"] = true
	}
	return system, user, options, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func truncate[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
