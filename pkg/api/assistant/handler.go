package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	"valuecase/pkg/core/agent"
	"valuecase/pkg/core/project"
	"valuecase/pkg/core/prompt"
	"valuecase/pkg/core/utils"
)

// Executor runs a single prompt. *agent.Manager satisfies it.
type Executor interface {
	ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error)
}

// Handler provides HTTP handlers for AI Assistant functionality
type Handler struct {
	exec    Executor
	prompts *prompt.Registry
}

// NewHandler creates a new assistant handler. A nil registry means the
// global prompt library.
func NewHandler(exec Executor, prompts *prompt.Registry) *Handler {
	if prompts == nil {
		prompts = prompt.Get()
	}
	return &Handler{exec: exec, prompts: prompts}
}

// Register mounts the assistant route.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/assistant/navigate", h.HandleNavigationIntent).Methods(http.MethodPost)
}

// NavigationRequest represents the user's natural language query
type NavigationRequest struct {
	Message      string `json:"message"`
	CurrentStage string `json:"current_stage,omitempty"`
}

// NavigationResponse contains the parsed intent
type NavigationResponse struct {
	Intent      string        `json:"intent"` // "navigate", "query", "chat"
	TargetStage project.Stage `json:"target_stage,omitempty"`
	StageLabel  string        `json:"stage_label,omitempty"`
	Confidence  float64       `json:"confidence"`
	Explanation string        `json:"explanation"`
}

// StageLabels are the display names of the wizard stages.
var StageLabels = map[project.Stage]string{
	project.StageSetup:       "Project Setup",
	project.StageObjectives:  "Objectives & KPIs",
	project.StageAssumptions: "KPI Assumptions",
	project.StageFinancial:   "Financial Analysis",
	project.StageResults:     "Results & Export",
}

var stageDescriptions = map[project.Stage]string{
	project.StageSetup:       "company, industry, platform, project mode and timeline",
	project.StageObjectives:  "strategic objectives from the value tree and the KPIs that measure them",
	project.StageAssumptions: "baseline and target values per KPI, benchmarks and the AI assumption review",
	project.StageFinancial:   "cost items, duration, discount rate, ROI, NPV and payback",
	project.StageResults:     "executive summary, recommendations, report and slide export",
}

// stageRegistry lists the stages for the model in wizard order.
func stageRegistry() string {
	var b strings.Builder
	for _, st := range project.Stages {
		fmt.Fprintf(&b, "- %s: %s - %s\n", st, StageLabels[st], stageDescriptions[st])
	}
	return b.String()
}

// HandleNavigationIntent parses user message and returns navigation intent
func (h *Handler) HandleNavigationIntent(w http.ResponseWriter, r *http.Request) {
	var req NavigationRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		apiutil.WriteError(w, fmt.Errorf("%w: message is required", apiutil.ErrBadRequest))
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, h.resolve(r.Context(), req))
}

func (h *Handler) resolve(ctx context.Context, req NavigationRequest) NavigationResponse {
	if h.exec == nil {
		return fallbackKeywordMatch(req.Message)
	}
	vars := prompt.NewContext().
		Set("Message", req.Message).
		Set("Stages", stageRegistry())
	if req.CurrentStage != "" {
		vars.Set("CurrentStage", req.CurrentStage)
	}
	system, user, pt, err := h.prompts.Render(prompt.PromptIDs.Navigation, vars)
	if err != nil {
		fmt.Printf("[WARNING] Navigation prompt unavailable: %v\n", err)
		return fallbackKeywordMatch(req.Message)
	}
	opts := map[string]interface{}{}
	if pt.JSONResponse {
		opts["json"] = true
	}

	resp, err := h.exec.ExecutePrompt(ctx, agent.Assistant, user, system, opts)
	if err != nil {
		fmt.Printf("[WARNING] Navigation assistant failed, using keyword match: %v\n", err)
		return fallbackKeywordMatch(req.Message)
	}

	var navResp NavigationResponse
	if _, err := utils.DecodeLLMJSON(resp, &navResp); err != nil {
		return NavigationResponse{Intent: "chat", Explanation: resp, Confidence: 0.5}
	}
	if navResp.Intent == "navigate" || navResp.Intent == "query" {
		st, err := project.ParseStage(string(navResp.TargetStage))
		if err != nil {
			// The model named something that is not a stage.
			return fallbackKeywordMatch(req.Message)
		}
		navResp.TargetStage = st
		navResp.StageLabel = StageLabels[st]
	} else {
		navResp.Intent = "chat"
		navResp.TargetStage = ""
		navResp.StageLabel = ""
	}
	return navResp
}

// keywordStages is checked in order; the first keyword found wins.
var keywordStages = []struct {
	keyword string
	stage   project.Stage
}{
	{"assumption", project.StageAssumptions},
	{"baseline", project.StageAssumptions},
	{"benchmark", project.StageAssumptions},
	{"objective", project.StageObjectives},
	{"value tree", project.StageObjectives},
	{"kpi", project.StageObjectives},
	{"cost", project.StageFinancial},
	{"financial", project.StageFinancial},
	{"npv", project.StageFinancial},
	{"payback", project.StageFinancial},
	{"discount", project.StageFinancial},
	{"report", project.StageResults},
	{"export", project.StageResults},
	{"slide", project.StageResults},
	{"result", project.StageResults},
	{"summary", project.StageResults},
	{"setup", project.StageSetup},
	{"company", project.StageSetup},
	{"industry", project.StageSetup},
	{"platform", project.StageSetup},
}

// fallbackKeywordMatch provides basic keyword-based navigation when the LLM is unavailable
func fallbackKeywordMatch(message string) NavigationResponse {
	msg := strings.ToLower(message)
	for _, kw := range keywordStages {
		if strings.Contains(msg, kw.keyword) {
			return NavigationResponse{
				Intent:      "navigate",
				TargetStage: kw.stage,
				StageLabel:  StageLabels[kw.stage],
				Confidence:  0.8,
				Explanation: fmt.Sprintf("Detected keyword '%s', suggesting %s", kw.keyword, StageLabels[kw.stage]),
			}
		}
	}
	return NavigationResponse{
		Intent:      "chat",
		Confidence:  1.0,
		Explanation: "No navigation intent detected",
	}
}
