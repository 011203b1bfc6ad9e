// Package calc exposes the catalog and the stateless benefit and rollup
// engines, so a client can preview figures without saving a project.
package calc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/benefit"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/financial"
)

// Register mounts the calculation and catalog routes.
func Register(r *mux.Router) {
	r.HandleFunc("/api/calc/benefits", HandleBenefits).Methods(http.MethodPost)
	r.HandleFunc("/api/calc/rollup", HandleRollup).Methods(http.MethodPost)
	r.HandleFunc("/api/catalog/kpis", HandleKPIs).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog/fields", HandleFields).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog/value-tree", HandleValueTree).Methods(http.MethodGet)
}

type BenefitsRequest struct {
	KPIAssumptions    []assumption.KPIAssumption `json:"kpi_assumptions"`
	PlatformSelection string                     `json:"platform_selection"`
}

type BenefitsResponse struct {
	benefit.Result
	Badges map[string]assumption.Completeness `json:"badges"`
}

// HandleBenefits derives annual benefits from a set of assumptions.
func HandleBenefits(w http.ResponseWriter, r *http.Request) {
	var req BenefitsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	platform := catalog.DetectPlatform(req.PlatformSelection)
	store := assumption.Store(req.KPIAssumptions)
	apiutil.WriteJSON(w, http.StatusOK, BenefitsResponse{
		Result: benefit.Derive(req.KPIAssumptions, platform),
		Badges: store.Badges(platform),
	})
}

type RollupRequest struct {
	CostItems  []financial.CostItem  `json:"cost_items"`
	Benefits   financial.Benefits    `json:"benefits"`
	Parameters *financial.Parameters `json:"parameters"`
}

type RollupResponse struct {
	financial.Result
	Status   string               `json:"roi_status"`
	Schedule []financial.YearFlow `json:"schedule"`
}

// HandleRollup computes the financial metrics. Missing parameters mean the
// defaults a new project starts with.
func HandleRollup(w http.ResponseWriter, r *http.Request) {
	var req RollupRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	params := financial.DefaultParameters()
	if req.Parameters != nil {
		params = *req.Parameters
	}
	if err := params.Validate(); err != nil {
		apiutil.WriteError(w, fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err))
		return
	}
	res := financial.Rollup(req.CostItems, req.Benefits, params)
	schedule := financial.Schedule(res.TotalCosts, res.AnnualBenefits, params)
	apiutil.WriteJSON(w, http.StatusOK, RollupResponse{
		Result:   res,
		Status:   financial.ROIStatus(res.ROIPercent),
		Schedule: schedule,
	})
}

// KPIInfo is one catalog entry with its static improvement bands.
type KPIInfo struct {
	Name      string        `json:"name"`
	Kind      catalog.Kind  `json:"kind,omitempty"`
	Baselines catalog.Range `json:"baselines"`
}

func HandleKPIs(w http.ResponseWriter, r *http.Request) {
	names := catalog.Names()
	out := make([]KPIInfo, 0, len(names))
	for _, name := range names {
		out = append(out, KPIInfo{Name: name, Kind: catalog.Resolve(name), Baselines: catalog.Baselines(name)})
	}
	apiutil.WriteJSON(w, http.StatusOK, out)
}

type FieldsResponse struct {
	KPI             string              `json:"kpi"`
	Platform        catalog.Platform    `json:"platform"`
	Fields          []catalog.FieldSpec `json:"fields"`
	Kind            catalog.Kind        `json:"kind"`
	Derived         bool                `json:"derived"`
	Baselines       catalog.Range       `json:"baselines"`
	IndustryAverage *catalog.SizeRanges `json:"industry_average,omitempty"`
}

// HandleFields returns the assumption form of a KPI. Non-catalog names get
// the form of the formula they resolve to; Derived is false when no formula
// applies and the form is informational only.
func HandleFields(w http.ResponseWriter, r *http.Request) {
	kpi := strings.TrimSpace(r.URL.Query().Get("kpi"))
	if kpi == "" {
		apiutil.WriteError(w, fmt.Errorf("%w: kpi is required", apiutil.ErrBadRequest))
		return
	}
	platform := catalog.DetectPlatform(r.URL.Query().Get("platform"))
	resp := FieldsResponse{
		KPI:       kpi,
		Platform:  platform,
		Fields:    catalog.FieldsFor(kpi, platform),
		Kind:      catalog.Resolve(kpi),
		Derived:   catalog.Derives(kpi),
		Baselines: catalog.Baselines(kpi),
	}
	if avg, ok := catalog.IndustryAverages(kpi, platform); ok {
		resp.IndustryAverage = &avg
	}
	apiutil.WriteJSON(w, http.StatusOK, resp)
}

// HandleValueTree returns the lever, objective and KPI tree for a platform.
// ?strict=true rejects unrecognized platforms instead of showing CCaaS.
func HandleValueTree(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("platform")
	platform := catalog.DetectPlatform(raw)
	if r.URL.Query().Get("strict") == "true" {
		p, err := catalog.ParsePlatform(raw)
		if err != nil {
			apiutil.WriteError(w, fmt.Errorf("%w: %q", err, raw))
			return
		}
		platform = p
	}
	apiutil.WriteJSON(w, http.StatusOK, catalog.ValueTreeFor(platform))
}
