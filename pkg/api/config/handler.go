package config

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	"valuecase/pkg/core/agent"
)

type Response struct {
	ActiveProvider string                       `json:"active_provider"`
	Available      []string                     `json:"available"`
	Agents         map[string]agent.AgentConfig `json:"agents"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		AgentMgr: agentMgr,
	}
}

// Register mounts the config routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/config", h.HandleConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/config/switch", h.HandleSwitch).Methods(http.MethodPost)
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.AgentMgr.Config()
	apiutil.WriteJSON(w, http.StatusOK, Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.Providers(),
		Agents:         cfg.Agents,
	})
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	var req SwitchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}

	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		apiutil.WriteError(w, fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err))
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.Providers(),
	})
}
