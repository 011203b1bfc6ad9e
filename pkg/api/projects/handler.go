// Package projects serves project CRUD and the wizard mutations over HTTP.
// Every mutation loads the stored project, applies one change, recomputes
// the derived figures and saves.
package projects

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/financial"
	"valuecase/pkg/core/project"
	"valuecase/pkg/core/store"
)

// Handler holds dependencies for project endpoints
type Handler struct {
	Repo store.Repository
}

// NewHandler creates a new projects handler
func NewHandler(repo store.Repository) *Handler {
	return &Handler{Repo: repo}
}

// Register mounts the project routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/projects", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/api/projects", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", h.HandleReplace).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}", h.HandleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/projects/{id}/duplicate", h.HandleDuplicate).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/progress", h.HandleProgress).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}/navigate", h.HandleNavigate).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/setup", h.HandleSetup).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}/objectives", h.HandleObjective).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/kpis", h.HandleKPI).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/assumptions", h.HandleAssumption).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}/costs", h.HandleAddCost).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/costs/{itemId}", h.HandleUpdateCost).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}/costs/{itemId}", h.HandleRemoveCost).Methods(http.MethodDelete)
	r.HandleFunc("/api/projects/{id}/financials", h.HandleFinancials).Methods(http.MethodPut)
}

// ProjectSummary is one row of the project list.
type ProjectSummary struct {
	ID          string        `json:"id"`
	ProjectName string        `json:"project_name"`
	Company     string        `json:"company"`
	Industry    string        `json:"industry,omitempty"`
	Platform    string        `json:"platform_selection,omitempty"`
	ActiveStage project.Stage `json:"active_stage"`
	Progress    int           `json:"progress"`
	ROIPercent  float64       `json:"roi_percent"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func summarize(p *project.Project) ProjectSummary {
	return ProjectSummary{
		ID:          p.ID,
		ProjectName: p.Setup.ProjectName,
		Company:     p.Setup.Company,
		Industry:    p.Setup.Industry,
		Platform:    p.Setup.PlatformSelection,
		ActiveStage: p.ActiveStage,
		Progress:    p.Progress(),
		ROIPercent:  p.Financials.ROIPercent,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.List(r.Context())
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	out := make([]ProjectSummary, 0, len(list))
	for _, p := range list {
		out = append(out, summarize(p))
	}
	apiutil.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate starts a project from its setup fields.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var setup project.Setup
	if err := apiutil.DecodeJSON(r, &setup); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(setup.ProjectName) == "" {
		apiutil.WriteError(w, fmt.Errorf("%w: project_name is required", apiutil.ErrBadRequest))
		return
	}
	p := project.New(setup.ProjectName)
	p.UpdateSetup(setup)
	if err := h.Repo.Create(r.Context(), p); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	fmt.Printf("[STORE] Created project %s (%s)\n", p.ID, p.Setup.ProjectName)
	apiutil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, p)
}

// HandleReplace overwrites the editable state of a project. The id and
// creation time are kept; derived figures are recomputed from the inputs.
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var in project.Project
	if err := apiutil.DecodeJSON(r, &in); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		created := p.CreatedAt
		*p = in
		p.CreatedAt = created
		p.Normalize()
		return nil
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	fmt.Printf("[STORE] Deleted project %s\n", id)
	w.WriteHeader(http.StatusNoContent)
}

type duplicateRequest struct {
	Name string `json:"name"`
}

// HandleDuplicate copies a project. The body is optional; without a name
// the copy is called "<name> (copy)".
func (h *Handler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	var req duplicateRequest
	if err := apiutil.DecodeOptionalJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	dup, err := store.Duplicate(r.Context(), h.Repo, mux.Vars(r)["id"], req.Name)
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusCreated, dup)
}

// ProgressResponse adds the assumption badges to the stage report.
type ProgressResponse struct {
	project.ProgressReport
	Badges map[string]assumption.Completeness `json:"badges"`
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, ProgressResponse{
		ProgressReport: p.Report(),
		Badges:         p.Assumptions.Badges(p.Platform()),
	})
}

type navigateRequest struct {
	Stage string `json:"stage"`
	// Gated refuses forward moves into stages whose predecessors are incomplete.
	Gated bool `json:"gated"`
}

// HandleNavigate changes the active stage through an editing session, which
// saves immediately on a stage change.
func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	stage, err := project.ParseStage(req.Stage)
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	p, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}

	var opts []project.SessionOption
	if req.Gated {
		opts = append(opts, project.WithForwardGating())
	}
	s := project.NewSession(p, h.Repo, opts...)
	if err := s.Navigate(r.Context(), stage); err != nil {
		_ = s.Close(r.Context())
		apiutil.WriteError(w, err)
		return
	}
	if err := s.Close(r.Context()); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, s.Project().Report())
}

func (h *Handler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	var setup project.Setup
	if err := apiutil.DecodeJSON(r, &setup); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		p.UpdateSetup(setup)
		return nil
	})
}

type objectiveRequest struct {
	// ID toggles a value tree objective of the project's platform.
	ID string `json:"id"`
	// Title and Description add a custom objective instead.
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// HandleObjective toggles a catalog objective, or adds a custom one when no
// id is given. Deselecting an objective drops its KPIs.
func (h *Handler) HandleObjective(w http.ResponseWriter, r *http.Request) {
	var req objectiveRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		if req.ID == "" {
			_, err := p.AddCustomObjective(req.Title, req.Description, req.Category, req.Priority)
			if err != nil {
				return fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err)
			}
			return nil
		}
		for _, o := range p.Objectives {
			if o.ID == req.ID {
				p.ToggleObjective(o)
				return nil
			}
		}
		o, ok := catalog.ValueTreeFor(p.Platform()).Objective(req.ID)
		if !ok {
			return fmt.Errorf("%w: objective %q is not in the %s value tree", apiutil.ErrBadRequest, req.ID, p.Platform())
		}
		p.ToggleObjective(project.FromCatalog(o))
		return nil
	})
}

type kpiRequest struct {
	KPI      string `json:"kpi"`
	Selected bool   `json:"selected"`
}

// HandleKPI selects or deselects a KPI. A selection past the project mode's
// cap answers 409.
func (h *Handler) HandleKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		if !req.Selected {
			p.DeselectKPI(req.KPI)
			return nil
		}
		if err := p.SelectKPI(req.KPI); err != nil {
			if strings.TrimSpace(req.KPI) == "" {
				return fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err)
			}
			return err
		}
		return nil
	})
}

type assumptionRequest struct {
	KPI   string           `json:"kpi"`
	Key   string           `json:"key"`
	Value assumption.Value `json:"value"`
}

// HandleAssumption writes one assumption field. A null value clears it.
func (h *Handler) HandleAssumption(w http.ResponseWriter, r *http.Request) {
	var req assumptionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	if req.KPI == "" || req.Key == "" {
		apiutil.WriteError(w, fmt.Errorf("%w: kpi and key are required", apiutil.ErrBadRequest))
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		if err := p.SetAssumption(req.KPI, req.Key, req.Value); err != nil {
			return fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err)
		}
		return nil
	})
}

func (h *Handler) HandleAddCost(w http.ResponseWriter, r *http.Request) {
	var item financial.CostItem
	if err := apiutil.DecodeJSON(r, &item); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		p.AddCostItem(item)
		return nil
	})
}

func (h *Handler) HandleUpdateCost(w http.ResponseWriter, r *http.Request) {
	var item financial.CostItem
	if err := apiutil.DecodeJSON(r, &item); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	item.ID = mux.Vars(r)["itemId"]
	h.mutate(w, r, func(p *project.Project) error {
		if err := p.UpdateCostItem(item); err != nil {
			return fmt.Errorf("%w: %v", store.ErrNotFound, err)
		}
		return nil
	})
}

func (h *Handler) HandleRemoveCost(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	h.mutate(w, r, func(p *project.Project) error {
		p.RemoveCostItem(itemID)
		return nil
	})
}

type financialsRequest struct {
	Parameters    *financial.Parameters `json:"parameters"`
	OtherBenefits *float64              `json:"other_benefits"`
}

// HandleFinancials updates the rollup parameters and the manual benefit entry.
func (h *Handler) HandleFinancials(w http.ResponseWriter, r *http.Request) {
	var req financialsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	h.mutate(w, r, func(p *project.Project) error {
		if req.Parameters != nil {
			if err := p.SetParameters(*req.Parameters); err != nil {
				return fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err)
			}
		}
		if req.OtherBenefits != nil {
			p.SetOtherBenefits(*req.OtherBenefits)
		}
		return nil
	})
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(p *project.Project) error) {
	p, err := store.Update(r.Context(), h.Repo, mux.Vars(r)["id"], fn)
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, p)
}
