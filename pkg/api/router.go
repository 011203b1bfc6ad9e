// Package api assembles the HTTP surface of the value case service.
package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"valuecase/pkg/api/assistant"
	"valuecase/pkg/api/calc"
	"valuecase/pkg/api/config"
	"valuecase/pkg/api/export"
	"valuecase/pkg/api/projects"
	"valuecase/pkg/api/research"
	"valuecase/pkg/core/agent"
	coreResearch "valuecase/pkg/core/research"
	"valuecase/pkg/core/store"
)

// Deps are the long-lived services the handlers share.
type Deps struct {
	Repo     store.Repository
	AgentMgr *agent.Manager
	Research *coreResearch.Service
}

// NewRouter registers every route. Config and assistant routes are skipped
// when no agent manager is given.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// import must win over /api/projects/{id}
	export.NewHandler(d.Repo, d.Research).Register(r)
	projects.NewHandler(d.Repo).Register(r)
	calc.Register(r)
	research.NewHandler(d.Research).Register(r)
	if d.AgentMgr != nil {
		config.NewHandler(d.AgentMgr).Register(r)
		assistant.NewHandler(d.AgentMgr, nil).Register(r)
	}
	return r
}

// Wrap adds CORS for browser clients and access logging to stdout.
func Wrap(h http.Handler) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept"}),
	)
	return handlers.LoggingHandler(os.Stdout, cors(h))
}
