// Package benefit derives annual dollar benefits from KPI assumptions.
//
// Every recognized KPI maps to exactly one formula through catalog.Resolve.
// A formula only contributes when the KPI's form is complete and its
// positivity preconditions hold; anything else contributes zero and is not
// an error. Derive is pure: identical input gives identical output.
package benefit

import (
	"math"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
)

// Category classifies a benefit line.
type Category string

const (
	CostSaving       Category = "cost_saving"
	RevenueIncrease  Category = "revenue_increase"
	ProductivityGain Category = "productivity_gain"
)

// Label is the display name of a category.
func (c Category) Label() string {
	switch c {
	case CostSaving:
		return "Cost Savings"
	case RevenueIncrease:
		return "Revenue Increase"
	case ProductivityGain:
		return "Productivity Gains"
	}
	return string(c)
}

// LineItem is one KPI's annualized contribution.
type LineItem struct {
	KPIName     string       `json:"kpi_name"`
	Kind        catalog.Kind `json:"kind"`
	Category    Category     `json:"category"`
	Amount      float64      `json:"amount"`
	Explanation string       `json:"explanation"`
}

// Result aggregates line items by category.
type Result struct {
	CostSavings       float64    `json:"cost_savings"`
	RevenueIncrease   float64    `json:"revenue_increase"`
	ProductivityGains float64    `json:"productivity_gains"`
	LineItems         []LineItem `json:"line_items"`
}

// Annual is the sum of all three categories.
func (r Result) Annual() float64 {
	return r.CostSavings + r.RevenueIncrease + r.ProductivityGains
}

// ByCategory returns the line items of one category in derivation order.
func (r Result) ByCategory(c Category) []LineItem {
	var out []LineItem
	for _, li := range r.LineItems {
		if li.Category == c {
			out = append(out, li)
		}
	}
	return out
}

// Derive computes benefits for every assumption set, in input order.
func Derive(assumptions []assumption.KPIAssumption, platform catalog.Platform) Result {
	res := Result{LineItems: []LineItem{}}
	for _, a := range assumptions {
		li, ok := DeriveOne(a, platform)
		if !ok {
			continue
		}
		switch li.Category {
		case CostSaving:
			res.CostSavings += li.Amount
		case RevenueIncrease:
			res.RevenueIncrease += li.Amount
		case ProductivityGain:
			res.ProductivityGains += li.Amount
		}
		res.LineItems = append(res.LineItems, li)
	}
	return res
}

// DeriveOne applies the formula for a single KPI. ok is false when the KPI
// has no formula, is incomplete, or fails its preconditions.
func DeriveOne(a assumption.KPIAssumption, platform catalog.Platform) (LineItem, bool) {
	if !a.HasValues() || !a.Complete(platform) {
		return LineItem{}, false
	}
	kind := catalog.Resolve(a.KPIName)
	f, ok := formulas[kind]
	if !ok {
		return LineItem{}, false
	}
	amount, explanation, ok := f.apply(inputs{a})
	if !ok || amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return LineItem{}, false
	}
	return LineItem{
		KPIName:     a.KPIName,
		Kind:        kind,
		Category:    f.category,
		Amount:      amount,
		Explanation: explanation,
	}, true
}
