// Package project holds the business value case aggregate and the editing
// session that keeps its derived figures and persisted copy up to date.
package project

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/benefit"
	"valuecase/pkg/core/catalog"
	"valuecase/pkg/core/financial"
)

var (
	// ErrKPILimit is returned when a selection would exceed the project mode's KPI cap.
	ErrKPILimit = errors.New("kpi selection limit reached")
	// ErrUnknownStage is returned for a stage name outside the five wizard stages.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrStageLocked is returned when forward navigation is gated.
	ErrStageLocked = errors.New("stage is locked until the previous stages are complete")
)

// Setup is the first wizard stage: who the case is for and how it is scoped.
type Setup struct {
	ProjectName       string `json:"project_name"`
	Company           string `json:"company"`
	Department        string `json:"department,omitempty"`
	Timeline          string `json:"timeline,omitempty"`
	ClientName        string `json:"client_name,omitempty"`
	AccountID         string `json:"account_id,omitempty"`
	CompanySize       string `json:"company_size,omitempty"`
	Industry          string `json:"industry,omitempty"`
	PlatformSelection string `json:"platform_selection,omitempty"`
	RoiType           string `json:"roi_type"`
	Description       string `json:"project_description,omitempty"`
	StartDate         string `json:"start_date,omitempty"`
	AnnualRevenue     string `json:"annual_revenue,omitempty"`
	RelationshipOwner string `json:"relationship_owner,omitempty"`
	SalesStage        string `json:"sales_stage,omitempty"`
	OtherNotes        string `json:"other_notes,omitempty"`
}

// Platform is the normalized platform; unrecognized selections read as CCaaS.
func (s Setup) Platform() catalog.Platform {
	return catalog.DetectPlatform(s.PlatformSelection)
}

// Objective is a selected strategic objective, either from the value tree or custom.
type Objective struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ValueDriver string   `json:"value_driver,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Custom      bool     `json:"custom,omitempty"`
	KPIs        []string `json:"kpis,omitempty"`
}

// FromCatalog converts a value tree objective into a selection entry.
func FromCatalog(o catalog.Objective) Objective {
	return Objective{
		ID:          o.ID,
		Title:       o.Title,
		ValueDriver: o.ValueDriver,
		KPIs:        append([]string(nil), o.KPIs...),
	}
}

// Project is the aggregate root persisted between sessions. Benefits and
// Financials are derived and are replaced by every Recompute.
type Project struct {
	ID            string               `json:"id"`
	Setup         Setup                `json:"setup"`
	Objectives    []Objective          `json:"objectives"`
	KPIs          []string             `json:"kpis"`
	Assumptions   assumption.Store     `json:"kpi_assumptions"`
	CostItems     []financial.CostItem `json:"cost_items"`
	OtherBenefits float64              `json:"other_benefits"`
	Parameters    financial.Parameters `json:"parameters"`
	Benefits      benefit.Result       `json:"benefits"`
	Financials    financial.Result     `json:"financials"`
	Results       map[string]string    `json:"results,omitempty"`
	ActiveStage   Stage                `json:"active_stage"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// New creates an empty project with default financial parameters.
func New(name string) *Project {
	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.NewString(),
		Setup:       Setup{ProjectName: name},
		Objectives:  []Objective{},
		KPIs:        []string{},
		Assumptions: assumption.Store{},
		CostItems:   []financial.CostItem{},
		Parameters:  financial.DefaultParameters(),
		ActiveStage: StageSetup,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Recompute()
	return p
}

// Clone deep-copies the project.
func (p *Project) Clone() *Project {
	c := *p
	c.Objectives = make([]Objective, len(p.Objectives))
	for i, o := range p.Objectives {
		o.KPIs = append([]string(nil), o.KPIs...)
		c.Objectives[i] = o
	}
	c.KPIs = append([]string{}, p.KPIs...)
	c.Assumptions = p.Assumptions.Clone()
	if c.Assumptions == nil {
		c.Assumptions = assumption.Store{}
	}
	c.CostItems = append([]financial.CostItem{}, p.CostItems...)
	c.Benefits.LineItems = append([]benefit.LineItem{}, p.Benefits.LineItems...)
	if p.Results != nil {
		c.Results = make(map[string]string, len(p.Results))
		for k, v := range p.Results {
			c.Results[k] = v
		}
	}
	return &c
}

// Normalize restores the invariants of a freshly created project on a
// decoded record: non-nil collections, usable parameters, a known stage and
// derived figures consistent with the inputs.
func (p *Project) Normalize() {
	if p.Objectives == nil {
		p.Objectives = []Objective{}
	}
	if p.KPIs == nil {
		p.KPIs = []string{}
	}
	if p.Assumptions == nil {
		p.Assumptions = assumption.Store{}
	}
	p.Assumptions.Sync(p.KPIs)
	if p.CostItems == nil {
		p.CostItems = []financial.CostItem{}
	}
	if p.Parameters.Validate() != nil {
		p.Parameters = financial.DefaultParameters()
	}
	if p.ActiveStage.Index() < 0 {
		p.ActiveStage = StageSetup
	}
	p.Recompute()
}

// Platform is shorthand for Setup.Platform.
func (p *Project) Platform() catalog.Platform {
	return p.Setup.Platform()
}

// BenefitInputs are the rollup's benefit figures: derived totals plus the manual entry.
func (p *Project) BenefitInputs() financial.Benefits {
	return financial.Benefits{
		CostSavings:       p.Benefits.CostSavings,
		RevenueIncrease:   p.Benefits.RevenueIncrease,
		ProductivityGains: p.Benefits.ProductivityGains,
		OtherBenefits:     p.OtherBenefits,
	}
}

// Recompute replaces the derived benefits and financial result from the
// current inputs. It never accumulates across calls.
func (p *Project) Recompute() {
	p.Benefits = benefit.Derive(p.Assumptions, p.Platform())
	p.Financials = financial.Rollup(p.CostItems, p.BenefitInputs(), p.Parameters)
}

// =============================================================================
// MUTATIONS
// Each mutation leaves the derived figures consistent with the inputs.
// =============================================================================

// UpdateSetup replaces the setup fields. A platform change can change which
// fields are required, so derived figures are refreshed.
func (p *Project) UpdateSetup(s Setup) {
	p.Setup = s
	p.Recompute()
}

func (p *Project) hasKPI(name string) bool {
	for _, k := range p.KPIs {
		if k == name {
			return true
		}
	}
	return false
}

// SelectKPI adds a KPI to the selection. Selecting an already selected KPI is a no-op.
func (p *Project) SelectKPI(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("kpi name cannot be empty")
	}
	if p.hasKPI(name) {
		return nil
	}
	if limit := catalog.MaxKPIs(p.Setup.RoiType); limit > 0 && len(p.KPIs) >= limit {
		return fmt.Errorf("%w: %s allows at most %d", ErrKPILimit, p.Setup.RoiType, limit)
	}
	p.KPIs = append(p.KPIs, name)
	p.syncAssumptions()
	return nil
}

// DeselectKPI removes a KPI and its assumptions.
func (p *Project) DeselectKPI(name string) {
	name = strings.TrimSpace(name)
	out := make([]string, 0, len(p.KPIs))
	for _, k := range p.KPIs {
		if k != name {
			out = append(out, k)
		}
	}
	p.KPIs = out
	p.syncAssumptions()
}

func (p *Project) syncAssumptions() {
	p.Assumptions.Sync(p.KPIs)
	p.Recompute()
}

func (p *Project) objectiveIndex(id string) int {
	for i, o := range p.Objectives {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// ToggleObjective selects an objective, or deselects it together with every
// KPI that belongs to it.
func (p *Project) ToggleObjective(o Objective) {
	if i := p.objectiveIndex(o.ID); i >= 0 {
		removed := p.Objectives[i]
		p.Objectives = append(p.Objectives[:i:i], p.Objectives[i+1:]...)
		owned := make(map[string]bool, len(removed.KPIs))
		for _, k := range removed.KPIs {
			owned[k] = true
		}
		for _, k := range o.KPIs {
			owned[k] = true
		}
		kept := make([]string, 0, len(p.KPIs))
		for _, k := range p.KPIs {
			if !owned[k] {
				kept = append(kept, k)
			}
		}
		p.KPIs = kept
		p.syncAssumptions()
		return
	}
	p.Objectives = append(p.Objectives, o)
}

// AddCustomObjective appends a user-defined objective. Title and description are required.
func (p *Project) AddCustomObjective(title, description, category, priority string) (Objective, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return Objective{}, fmt.Errorf("custom objective needs a title and a description")
	}
	if priority == "" {
		priority = "medium"
	}
	o := Objective{
		ID:          "custom-" + uuid.NewString(),
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Custom:      true,
	}
	p.Objectives = append(p.Objectives, o)
	return o, nil
}

// SetAssumption writes one assumption field of a selected KPI.
func (p *Project) SetAssumption(kpiName, key string, v assumption.Value) error {
	if err := p.Assumptions.Set(kpiName, key, v); err != nil {
		return err
	}
	p.Recompute()
	return nil
}

// AddCostItem appends a cost row, assigning an id when none is given.
func (p *Project) AddCostItem(c financial.CostItem) financial.CostItem {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	p.CostItems = append(p.CostItems, c)
	p.Recompute()
	return c
}

// UpdateCostItem replaces the row with the same id.
func (p *Project) UpdateCostItem(c financial.CostItem) error {
	for i := range p.CostItems {
		if p.CostItems[i].ID == c.ID {
			p.CostItems[i] = c
			p.Recompute()
			return nil
		}
	}
	return fmt.Errorf("cost item '%s' not found", c.ID)
}

// RemoveCostItem deletes a row by id. Unknown ids are ignored.
func (p *Project) RemoveCostItem(id string) {
	out := make([]financial.CostItem, 0, len(p.CostItems))
	for _, c := range p.CostItems {
		if c.ID != id {
			out = append(out, c)
		}
	}
	p.CostItems = out
	p.Recompute()
}

// SetParameters validates and applies new rollup parameters.
func (p *Project) SetParameters(params financial.Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	p.Parameters = params
	p.Recompute()
	return nil
}

// SetOtherBenefits sets the manual annual benefit entry.
func (p *Project) SetOtherBenefits(v float64) {
	p.OtherBenefits = v
	p.Recompute()
}

// SetResult stores a free-form results entry (summary, recommendation, note).
func (p *Project) SetResult(key, value string) {
	if p.Results == nil {
		p.Results = map[string]string{}
	}
	if value == "" {
		delete(p.Results, key)
		return
	}
	p.Results[key] = value
}
