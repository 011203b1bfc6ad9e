// Package financial rolls derived benefits and itemized costs into the
// project-level metrics: total costs and benefits, net benefit, ROI,
// payback period and NPV.
package financial

import (
	"fmt"
	"math"
)

// CostMethod says how a cost amount is interpreted.
type CostMethod string

const (
	// Fixed amounts are a one-time total.
	Fixed CostMethod = "fixed"
	// Recurring amounts are a monthly rate.
	Recurring CostMethod = "recurring"
)

// CostType is the cost category. Only License changes the arithmetic.
type CostType string

const (
	Implementation CostType = "implementation"
	License        CostType = "license"
	Maintenance    CostType = "maintenance"
	Training       CostType = "training"
	Technology     CostType = "technology"
	Other          CostType = "other"
)

// CostItem is one user-entered cost row.
type CostItem struct {
	ID               string     `json:"id"`
	CostMethod       CostMethod `json:"cost_method"`
	CostType         CostType   `json:"cost_type"`
	Amount           float64    `json:"amount"`
	NumberOfLicenses int        `json:"number_of_licenses,omitempty"`
	Description      string     `json:"description"`
}

// Parameters are the per-project rollup settings.
type Parameters struct {
	ProjectDurationMonths int     `json:"project_duration_months"`
	DiscountRatePercent   float64 `json:"discount_rate_percent"`
	// RiskFactorPercent is collected and stored but does not enter any formula.
	RiskFactorPercent float64 `json:"risk_factor_percent"`
}

// DefaultParameters are the values a new project starts with.
func DefaultParameters() Parameters {
	return Parameters{ProjectDurationMonths: 12, DiscountRatePercent: 10, RiskFactorPercent: 5}
}

// Validate rejects parameters the rollup cannot use.
func (p Parameters) Validate() error {
	if p.ProjectDurationMonths <= 0 {
		return fmt.Errorf("project duration must be positive, got %d months", p.ProjectDurationMonths)
	}
	if math.IsNaN(p.DiscountRatePercent) || p.DiscountRatePercent <= -100 {
		return fmt.Errorf("discount rate %.2f%% is out of range", p.DiscountRatePercent)
	}
	return nil
}

// Years is the duration in (fractional) years.
func (p Parameters) Years() float64 {
	return float64(p.ProjectDurationMonths) / 12
}

// Benefits are the annual benefit inputs of a rollup. The first three come
// from the derivation engine; OtherBenefits is a manual entry.
type Benefits struct {
	CostSavings       float64 `json:"cost_savings"`
	RevenueIncrease   float64 `json:"revenue_increase"`
	ProductivityGains float64 `json:"productivity_gains"`
	OtherBenefits     float64 `json:"other_benefits"`
}

// Annual sums every benefit source.
func (b Benefits) Annual() float64 {
	return b.CostSavings + b.RevenueIncrease + b.ProductivityGains + b.OtherBenefits
}

// Result is the rollup output. It is always recomputed wholesale.
type Result struct {
	TotalCosts     float64 `json:"total_costs"`
	AnnualBenefits float64 `json:"annual_benefits"`
	TotalBenefits  float64 `json:"total_benefits"`
	NetBenefit     float64 `json:"net_benefit"`
	ROIPercent     float64 `json:"roi_percent"`
	PaybackYears   float64 `json:"payback_years"`
	NPV            float64 `json:"npv"`
}

// YearFlow is one row of the discounted benefit schedule.
type YearFlow struct {
	Year           int     `json:"year"`
	Benefit        float64 `json:"benefit"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
	CumulativeNPV  float64 `json:"cumulative_npv"`
}
