package project

import (
	"fmt"
	"math"
	"strings"
)

// Stage is one of the five ordered wizard stages.
type Stage string

const (
	StageSetup       Stage = "setup"
	StageObjectives  Stage = "objectives"
	StageAssumptions Stage = "assumptions"
	StageFinancial   Stage = "financial"
	StageResults     Stage = "results"
)

// Stages lists the wizard stages in order.
var Stages = []Stage{StageSetup, StageObjectives, StageAssumptions, StageFinancial, StageResults}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(s)))
	if st.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
	return st, nil
}

// Index is the stage's position, or -1 when it is not a wizard stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// StageComplete is the progress predicate for a stage.
func (p *Project) StageComplete(s Stage) bool {
	switch s {
	case StageSetup:
		return strings.TrimSpace(p.Setup.ProjectName) != "" &&
			strings.TrimSpace(p.Setup.Company) != "" &&
			strings.TrimSpace(p.Setup.RoiType) != ""
	case StageObjectives:
		return len(p.Objectives) > 0
	case StageAssumptions:
		return p.Assumptions.HasAnyValues()
	case StageFinancial:
		return p.Benefits.CostSavings > 0 || p.Benefits.RevenueIncrease > 0 || p.Benefits.ProductivityGains > 0
	case StageResults:
		if p.ActiveStage == StageResults {
			return true
		}
		for _, st := range Stages[:4] {
			if !p.StageComplete(st) {
				return false
			}
		}
		return true
	}
	return false
}

// CompletedStages counts stages whose predicate holds.
func (p *Project) CompletedStages() int {
	n := 0
	for _, st := range Stages {
		if p.StageComplete(st) {
			n++
		}
	}
	return n
}

// Progress is the completed share of the five stages as a rounded percentage.
func (p *Project) Progress() int {
	return int(math.Round(float64(p.CompletedStages()) / float64(len(Stages)) * 100))
}

// StageStatus is one row of the progress report.
type StageStatus struct {
	Stage    Stage `json:"stage"`
	Complete bool  `json:"complete"`
	CanEnter bool  `json:"can_enter"`
}

// ProgressReport is the serializable progress view of a project.
type ProgressReport struct {
	Percent     int           `json:"percent"`
	ActiveStage Stage         `json:"active_stage"`
	Stages      []StageStatus `json:"stages"`
}

// Report builds the progress view.
func (p *Project) Report() ProgressReport {
	r := ProgressReport{Percent: p.Progress(), ActiveStage: p.ActiveStage}
	for _, st := range Stages {
		r.Stages = append(r.Stages, StageStatus{Stage: st, Complete: p.StageComplete(st), CanEnter: p.CanEnter(st)})
	}
	return r
}

// readyToLeave is the stricter forward gate. Leaving objectives needs at
// least one KPI as well, and leaving assumptions needs every selected KPI's
// form complete.
func (p *Project) readyToLeave(s Stage) bool {
	switch s {
	case StageSetup:
		return p.StageComplete(StageSetup)
	case StageObjectives:
		return len(p.Objectives) > 0 && len(p.KPIs) > 0
	case StageAssumptions:
		return p.Assumptions.AllComplete(p.Platform())
	}
	return true
}

// CanEnter reports whether gated navigation may move to a stage. Going back
// is always allowed; going forward needs every earlier stage ready to leave.
func (p *Project) CanEnter(target Stage) bool {
	ti := target.Index()
	if ti < 0 {
		return false
	}
	if ti <= p.ActiveStage.Index() {
		return true
	}
	for _, st := range Stages[:ti] {
		if !p.readyToLeave(st) {
			return false
		}
	}
	return true
}
