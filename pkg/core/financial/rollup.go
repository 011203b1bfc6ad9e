package financial

import "math"

// ItemCost is the total cost of one row over the project duration.
//
// Recurring amounts are monthly and are scaled to the duration; license rows
// are multiplied by their license count when one is given. Rows without a
// recognized method are treated as fixed.
func ItemCost(c CostItem, durationMonths int) float64 {
	cost := c.Amount
	if c.CostMethod == Recurring {
		annual := c.Amount * 12
		cost = annual * (float64(durationMonths) / 12)
	}
	if c.CostType == License && c.NumberOfLicenses > 0 {
		cost *= float64(c.NumberOfLicenses)
	}
	return cost
}

// TotalCosts sums ItemCost over every row.
func TotalCosts(items []CostItem, durationMonths int) float64 {
	var total float64
	for _, c := range items {
		total += ItemCost(c, durationMonths)
	}
	return total
}

// Rollup computes the financial result. Zero costs give an ROI of 0 and
// zero annual benefits give a payback of 0; neither ratio is ever NaN or
// infinite.
func Rollup(items []CostItem, b Benefits, p Parameters) Result {
	totalCosts := TotalCosts(items, p.ProjectDurationMonths)
	annual := b.Annual()
	totalBenefits := annual * p.Years()
	net := totalBenefits - totalCosts

	var roi float64
	if totalCosts > 0 {
		roi = net / totalCosts * 100
	}
	var payback float64
	if annual > 0 {
		payback = totalCosts / annual
	}

	return Result{
		TotalCosts:     totalCosts,
		AnnualBenefits: annual,
		TotalBenefits:  totalBenefits,
		NetBenefit:     net,
		ROIPercent:     roi,
		PaybackYears:   payback,
		NPV:            NPV(totalCosts, annual, p),
	}
}

// NPV discounts one full year of benefits for every started project year
// against the up-front total cost.
func NPV(totalCosts, annualBenefits float64, p Parameters) float64 {
	flows := Schedule(totalCosts, annualBenefits, p)
	if len(flows) == 0 {
		return -totalCosts
	}
	return flows[len(flows)-1].CumulativeNPV
}

// Schedule lists the discounted benefit of each project year,
// ceil(months/12) rows in total.
func Schedule(totalCosts, annualBenefits float64, p Parameters) []YearFlow {
	if p.ProjectDurationMonths <= 0 {
		return nil
	}
	years := int(math.Ceil(float64(p.ProjectDurationMonths) / 12))
	rate := p.DiscountRatePercent / 100

	flows := make([]YearFlow, 0, years)
	cumDiscountFactor := 1.0
	npv := -totalCosts
	for y := 1; y <= years; y++ {
		cumDiscountFactor /= (1.0 + rate)
		pv := annualBenefits * cumDiscountFactor
		npv += pv
		flows = append(flows, YearFlow{
			Year:           y,
			Benefit:        annualBenefits,
			DiscountFactor: cumDiscountFactor,
			PresentValue:   pv,
			CumulativeNPV:  npv,
		})
	}
	return flows
}

// ROIStatus is the qualitative label shown next to the ROI figure.
func ROIStatus(roiPercent float64) string {
	switch {
	case roiPercent >= 100:
		return "Excellent"
	case roiPercent >= 50:
		return "Good"
	case roiPercent >= 20:
		return "Acceptable"
	default:
		return "Poor"
	}
}
