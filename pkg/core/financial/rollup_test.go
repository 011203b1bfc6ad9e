package financial

import (
	"math"
	"testing"
)

func TestItemCost_FixedNonLicense(t *testing.T) {
	for _, ct := range []CostType{Implementation, Maintenance, Training, Technology, Other} {
		c := CostItem{CostMethod: Fixed, CostType: ct, Amount: 1234.5, NumberOfLicenses: 7}
		if got := ItemCost(c, 36); got != 1234.5 {
			t.Errorf("%s: expected amount unchanged, got %.2f", ct, got)
		}
	}
}

func TestItemCost_FixedLicense(t *testing.T) {
	c := CostItem{CostMethod: Fixed, CostType: License, Amount: 500, NumberOfLicenses: 4}
	if got := ItemCost(c, 12); got != 2000 {
		t.Errorf("expected 2000, got %.2f", got)
	}
	c.NumberOfLicenses = 0
	if got := ItemCost(c, 12); got != 500 {
		t.Errorf("missing license count should count as 1, got %.2f", got)
	}
}

func TestItemCost_RecurringLicense(t *testing.T) {
	for _, months := range []int{6, 12, 18, 36} {
		c := CostItem{CostMethod: Recurring, CostType: License, Amount: 1000, NumberOfLicenses: 10}
		want := 1000 * 12 * (float64(months) / 12) * 10
		if got := ItemCost(c, months); math.Abs(got-want) > 1e-9 {
			t.Errorf("%d months: expected %.2f, got %.2f", months, want, got)
		}
	}
}

func TestItemCost_RecurringNonLicenseIgnoresLicenses(t *testing.T) {
	c := CostItem{CostMethod: Recurring, CostType: Maintenance, Amount: 100, NumberOfLicenses: 50}
	if got := ItemCost(c, 24); got != 2400 {
		t.Errorf("expected 2400, got %.2f", got)
	}
}

func TestTotalCosts_ScenarioC(t *testing.T) {
	items := []CostItem{
		{ID: "1", CostMethod: Fixed, CostType: Implementation, Amount: 50000},
		{ID: "2", CostMethod: Recurring, CostType: License, Amount: 1000, NumberOfLicenses: 10},
	}
	if got := TotalCosts(items, 12); got != 170000 {
		t.Errorf("expected 170000, got %.2f", got)
	}
}

func TestRollup_ScenarioD(t *testing.T) {
	items := []CostItem{
		{ID: "1", CostMethod: Fixed, CostType: Implementation, Amount: 50000},
		{ID: "2", CostMethod: Recurring, CostType: License, Amount: 1000, NumberOfLicenses: 10},
	}
	b := Benefits{CostSavings: 200000, RevenueIncrease: 100000}
	res := Rollup(items, b, DefaultParameters())

	if res.TotalCosts != 170000 {
		t.Errorf("total costs: expected 170000, got %.2f", res.TotalCosts)
	}
	if res.TotalBenefits != 300000 {
		t.Errorf("total benefits: expected 300000, got %.2f", res.TotalBenefits)
	}
	if res.NetBenefit != 130000 {
		t.Errorf("net benefit: expected 130000, got %.2f", res.NetBenefit)
	}
	if math.Abs(res.ROIPercent-76.47) > 0.01 {
		t.Errorf("roi: expected ~76.47, got %.4f", res.ROIPercent)
	}
	if math.Abs(res.PaybackYears-0.5667) > 0.001 {
		t.Errorf("payback: expected ~0.567, got %.4f", res.PaybackYears)
	}
	if math.Abs(res.NPV-102727.27) > 0.01 {
		t.Errorf("npv: expected ~102727.27, got %.2f", res.NPV)
	}
	if ROIStatus(res.ROIPercent) != "Good" {
		t.Errorf("expected Good, got %s", ROIStatus(res.ROIPercent))
	}
}

func TestRollup_ZeroCostsAndZeroBenefits(t *testing.T) {
	res := Rollup(nil, Benefits{CostSavings: 1000}, DefaultParameters())
	if res.ROIPercent != 0 {
		t.Errorf("zero costs should give ROI 0, got %v", res.ROIPercent)
	}

	res = Rollup([]CostItem{{CostMethod: Fixed, CostType: Other, Amount: 100}}, Benefits{}, DefaultParameters())
	if res.PaybackYears != 0 {
		t.Errorf("zero benefits should give payback 0, got %v", res.PaybackYears)
	}
	if res.NPV != -100 {
		t.Errorf("zero benefits should give NPV of -costs, got %v", res.NPV)
	}

	res = Rollup(nil, Benefits{}, DefaultParameters())
	for _, v := range []float64{res.ROIPercent, res.PaybackYears, res.NPV, res.NetBenefit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("empty rollup produced a non-finite value: %+v", res)
		}
	}
}

func TestRollup_Idempotent(t *testing.T) {
	items := []CostItem{
		{CostMethod: Recurring, CostType: License, Amount: 333.33, NumberOfLicenses: 3},
		{CostMethod: Fixed, CostType: Training, Amount: 12345.67},
	}
	b := Benefits{CostSavings: 98765.4, ProductivityGains: 1234.5, OtherBenefits: 10}
	p := Parameters{ProjectDurationMonths: 30, DiscountRatePercent: 7.5}
	if Rollup(items, b, p) != Rollup(items, b, p) {
		t.Error("rollup is not idempotent")
	}
}

func TestNPV_PartialYearsRoundUp(t *testing.T) {
	p := Parameters{ProjectDurationMonths: 18, DiscountRatePercent: 10}
	flows := Schedule(1000, 1100, p)
	if len(flows) != 2 {
		t.Fatalf("18 months should discount 2 years, got %d", len(flows))
	}
	want := -1000 + 1100/1.1 + 1100/(1.1*1.1)
	if math.Abs(NPV(1000, 1100, p)-want) > 1e-6 {
		t.Errorf("expected %.4f, got %.4f", want, NPV(1000, 1100, p))
	}
	if math.Abs(flows[0].PresentValue-1000) > 1e-9 {
		t.Errorf("year 1 PV: expected 1000, got %.6f", flows[0].PresentValue)
	}
}

func TestNPV_ZeroDiscountRate(t *testing.T) {
	p := Parameters{ProjectDurationMonths: 24, DiscountRatePercent: 0}
	if got := NPV(500, 300, p); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestParametersValidate(t *testing.T) {
	if err := DefaultParameters().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if err := (Parameters{ProjectDurationMonths: 0}).Validate(); err == nil {
		t.Error("zero duration should fail")
	}
	if err := (Parameters{ProjectDurationMonths: 12, DiscountRatePercent: -100}).Validate(); err == nil {
		t.Error("-100% discount rate should fail")
	}
}

func TestROIStatus(t *testing.T) {
	cases := map[float64]string{150: "Excellent", 100: "Excellent", 75: "Good", 20: "Acceptable", 19.99: "Poor", -10: "Poor"}
	for roi, want := range cases {
		if got := ROIStatus(roi); got != want {
			t.Errorf("ROIStatus(%v) = %s, want %s", roi, got, want)
		}
	}
}
