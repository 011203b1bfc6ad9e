package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"valuecase/pkg/api"
	"valuecase/pkg/core/agent"
	"valuecase/pkg/core/prompt"
	"valuecase/pkg/core/research"
	"valuecase/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Prompt library overrides; the built-in prompts stay registered either way.
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Using built-in prompts")
	}
	fmt.Printf("[PROMPT] %d prompts registered\n", prompt.Get().Count())

	agentCfg, err := agent.LoadConfig("config/models.yaml")
	if err != nil {
		fmt.Printf("[WARNING] %v; using default model config\n", err)
		agentCfg = agent.DefaultConfig()
	}
	agentMgr := agent.NewManager(agentCfg)
	fmt.Printf("[AGENT] Active provider: %s\n", agentMgr.GetActiveProvider())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeCfg := store.ConfigFromEnv()
	repo, err := store.Open(ctx, storeCfg)
	if err != nil {
		fmt.Printf("[FATAL] Failed to open %s store: %v\n", storeCfg.Backend, err)
		os.Exit(1)
	}
	defer repo.Close()
	fmt.Printf("[STORE] Using %s backend\n", storeCfg.Backend)

	router := api.NewRouter(api.Deps{
		Repo:     repo,
		AgentMgr: agentMgr,
		Research: research.NewService(agentMgr),
	})

	addr := os.Getenv("VALUECASE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: api.Wrap(router)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("[WARNING] Shutdown: %v\n", err)
		}
	}()

	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - GET  /api/projects, POST /api/projects, POST /api/projects/import")
	fmt.Println("  - GET  /api/projects/{id}/export?format=json|markdown|html|slides")
	fmt.Println("  - POST /api/calc/benefits, POST /api/calc/rollup")
	fmt.Println("  - POST /api/research/insights, POST /api/research/benchmarks")
	fmt.Println("  - POST /api/assumptions/analyze  (SSE streaming)")
	fmt.Println("  - GET  /api/config, POST /api/config/switch")
	fmt.Println("  - POST /api/assistant/navigate")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Server stopped")
}
