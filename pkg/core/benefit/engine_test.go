package benefit

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
)

func kpi(name string, vals map[string]float64) assumption.KPIAssumption {
	a := assumption.KPIAssumption{KPIName: name, Values: map[string]assumption.Value{}}
	for k, v := range vals {
		a.Values[k] = assumption.Number(v)
	}
	return a
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestHandlingTime_FieldServices(t *testing.T) {
	a := kpi(catalog.KPIHandlingTime, map[string]float64{
		"currentAHT": 10, "targetAHT": 6, "annualCalls": 100000, "costPerMinute": 0.5,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformFieldServices)

	if res.CostSavings != 200000 {
		t.Errorf("expected cost savings 200000, got %.2f", res.CostSavings)
	}
	if len(res.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(res.LineItems))
	}
	li := res.LineItems[0]
	if li.Category != CostSaving || li.Kind != catalog.KindHandlingTime {
		t.Errorf("unexpected line item %+v", li)
	}
	if !strings.Contains(li.Explanation, "100,000 calls") {
		t.Errorf("explanation should show grouped call volume: %s", li.Explanation)
	}
}

func TestHandlingTime_CCaaSReduction(t *testing.T) {
	a := kpi(catalog.KPIHandlingTime, map[string]float64{
		"currentAHT": 10, "targetAHTReduction": 40, "annualCalls": 100000, "costPerMinute": 0.5,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformCCaaS)
	if !approx(res.CostSavings, 200000) {
		t.Errorf("expected ~200000, got %.2f", res.CostSavings)
	}
}

func TestHandlingTime_TargetNotBelowCurrent(t *testing.T) {
	a := kpi(catalog.KPIHandlingTime, map[string]float64{
		"currentAHT": 6, "targetAHT": 8, "annualCalls": 100000, "costPerMinute": 0.5,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformFieldServices)
	if res.Annual() != 0 || len(res.LineItems) != 0 {
		t.Errorf("expected no benefit when target exceeds current, got %+v", res)
	}
}

func TestCustomerLifetimeValue(t *testing.T) {
	a := kpi(catalog.KPICustomerLifetime, map[string]float64{
		"currentCLV": 1000, "targetCLV": 1500, "customerBase": 10000, "churnRate": 20,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformCCaaS)
	if res.RevenueIncrease != 1000000 {
		t.Errorf("expected revenue increase 1,000,000, got %.2f", res.RevenueIncrease)
	}
	if res.CostSavings != 0 || res.ProductivityGains != 0 {
		t.Error("CLV should only feed revenue increase")
	}
}

func TestIncompleteKPIContributesNothing(t *testing.T) {
	// conversionRate is required but blank.
	a := kpi(catalog.KPIRevenuePerCall, map[string]float64{
		"currentRPC": 10, "targetRPC": 12, "annualCalls": 5000,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformCCaaS)
	if len(res.LineItems) != 0 {
		t.Errorf("incomplete KPI must not emit a line item, got %+v", res.LineItems)
	}
	if a.Complete(catalog.PlatformCCaaS) {
		t.Error("completeness flag should be false")
	}

	a.Values["conversionRate"] = assumption.Number(3)
	res = Derive([]assumption.KPIAssumption{a}, catalog.PlatformCCaaS)
	if res.RevenueIncrease != 10000 {
		t.Errorf("expected 10000 once complete, got %.2f", res.RevenueIncrease)
	}
}

func TestPercentFormulas(t *testing.T) {
	cases := []struct {
		name     string
		vals     map[string]float64
		category Category
		want     float64
	}{
		{catalog.KPIFirstCallRes, map[string]float64{
			"currentFCR": 70, "targetFCR": 80, "annualCalls": 100000, "repeatCallCost": 5,
		}, CostSaving, 50000},
		{catalog.KPICallAutomation, map[string]float64{
			"currentFCR": 10, "targetFCR": 30, "annualCalls": 50000, "repeatCallCost": 4,
		}, CostSaving, 40000},
		{catalog.KPIAgentOccupancy, map[string]float64{
			"currentOccupancy": 70, "targetOccupancy": 80, "numberOfAgents": 100, "avgAgentSalary": 50000,
		}, ProductivityGain, 500000},
		{catalog.KPICSAT, map[string]float64{
			"currentCSAT": 70, "targetCSAT": 80, "surveyResponses": 1000, "retentionImpact": 50, "revenuePerCustomer": 100,
		}, RevenueIncrease, 60000},
		{catalog.KPIOnboarding, map[string]float64{
			"fieldServiceFTEs": 100, "ftesOnboardedPerYear": 20, "currentTimeToProductivity": 30,
			"dailyCostFieldServiceFTE": 400, "timeToProductivityReduction": 25,
		}, CostSaving, 60000},
		{catalog.KPIRetention, map[string]float64{
			"fieldServiceFTEs": 200, "fieldServiceAttritionRate": 15, "costOfHiring": 10000, "attritionRateReduction": 20,
		}, CostSaving, 60000},
		{catalog.KPIFirstTimeFix, map[string]float64{
			"totalFieldServiceCases": 10000, "currentResolutionRate": 70, "avgVisitsPerCase": 2,
			"costPerVisit": 100, "resolutionRateImprovement": 10,
		}, CostSaving, 140000},
		{catalog.KPIVisitDuration, map[string]float64{
			"totalFieldServiceCases": 10000, "avgVisitsPerCase": 2, "costPerVisit": 100, "visitDurationReduction": 10,
		}, CostSaving, 200000},
		{catalog.KPISecondTechnician, map[string]float64{
			"totalFieldServiceCases": 10000, "avgVisitsPerCase": 2, "visitsRequiring2Technicians": 10,
			"costPerVisit": 100, "reductionIn2TechnicianVisits": 50,
		}, CostSaving, 100000},
		{catalog.KPIRemoteResolution, map[string]float64{
			"totalFieldServiceCases": 10000, "currentContactCenterResolutionRate": 20, "avgVisitsPerCase": 2,
			"costPerVisit": 100, "contactCenterResolutionImprovement": 50,
		}, CostSaving, 200000},
		{catalog.KPIMissedAppointments, map[string]float64{
			"totalFieldServiceCases": 10000, "avgVisitsPerCase": 2, "currentMissedVisitsRate": 10,
			"costPerVisit": 100, "missedVisitsReduction": 50,
		}, CostSaving, 100000},
		{catalog.KPITravelAvoidance, map[string]float64{
			"totalFieldServiceCases": 10000, "currentResolutionRate": 70, "avgVisitsPerCase": 2,
			"travelCostPerVisit": 50, "resolutionRateImprovement": 10,
		}, CostSaving, 70000},
		{catalog.KPITravelDistance, map[string]float64{
			"totalFieldServiceCases": 10000, "travelCostPerVisit": 50, "avgVisitsPerCase": 2, "travelDistanceReduction": 10,
		}, CostSaving, 100000},
	}

	for _, c := range cases {
		li, ok := DeriveOne(kpi(c.name, c.vals), catalog.PlatformFieldServices)
		if !ok {
			t.Errorf("%s: expected a line item", c.name)
			continue
		}
		if li.Category != c.category {
			t.Errorf("%s: expected category %s, got %s", c.name, c.category, li.Category)
		}
		if !approx(li.Amount, c.want) {
			t.Errorf("%s: expected %.2f, got %.2f", c.name, c.want, li.Amount)
		}
		if li.Explanation == "" {
			t.Errorf("%s: empty explanation", c.name)
		}
	}
}

func TestFieldServiceZeroRateContributesNothing(t *testing.T) {
	a := kpi(catalog.KPIFirstTimeFix, map[string]float64{
		"totalFieldServiceCases": 10000, "currentResolutionRate": 0, "avgVisitsPerCase": 2,
		"costPerVisit": 100, "resolutionRateImprovement": 10,
	})
	if _, ok := DeriveOne(a, catalog.PlatformFieldServices); ok {
		t.Error("zero resolution rate should fail the precondition")
	}
}

func TestKPIsWithoutFormula(t *testing.T) {
	a := kpi(catalog.KPINPS, map[string]float64{
		"currentNPS": 20, "targetNPS": 40, "customerBase": 1000, "referralRate": 5,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformCCaaS)
	if len(res.LineItems) != 0 {
		t.Error("NPS has no automatic derivation")
	}
}

func TestDerive_MalformedAndEmpty(t *testing.T) {
	a := assumption.KPIAssumption{KPIName: catalog.KPIRevenuePerCall, Values: map[string]assumption.Value{
		"currentRPC":     assumption.Text("ten"),
		"targetRPC":      assumption.Text("12abc"),
		"annualCalls":    assumption.Text("NaN"),
		"conversionRate": assumption.Text("-"),
	}}
	empty := assumption.KPIAssumption{KPIName: catalog.KPICustomerLifetime}
	res := Derive([]assumption.KPIAssumption{a, empty, {}}, catalog.PlatformCCaaS)
	if res.Annual() != 0 || len(res.LineItems) != 0 {
		t.Errorf("malformed input should contribute nothing, got %+v", res)
	}
	if res.LineItems == nil {
		t.Error("line items should be an empty slice, not nil")
	}

	if got := Derive(nil, catalog.PlatformCCaaS); got.Annual() != 0 {
		t.Error("nil input should derive nothing")
	}
}

func TestDerive_Idempotent(t *testing.T) {
	in := []assumption.KPIAssumption{
		kpi(catalog.KPIHandlingTime, map[string]float64{
			"currentAHT": 7.3, "targetAHTReduction": 12.5, "annualCalls": 123457, "costPerMinute": 0.87,
		}),
		kpi(catalog.KPICustomerLifetime, map[string]float64{
			"currentCLV": 999.99, "targetCLV": 1234.56, "customerBase": 33333, "churnRate": 7.7,
		}),
		kpi(catalog.KPIAgentOccupancy, map[string]float64{
			"currentOccupancy": 61.1, "targetOccupancy": 73.9, "numberOfAgents": 47, "avgAgentSalary": 48123,
		}),
	}
	first := Derive(in, catalog.PlatformCCaaS)
	second := Derive(in, catalog.PlatformCCaaS)
	if !reflect.DeepEqual(first, second) {
		t.Error("Derive is not idempotent")
	}
	if len(first.LineItems) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(first.LineItems))
	}
	if first.LineItems[0].KPIName != catalog.KPIHandlingTime || first.LineItems[2].KPIName != catalog.KPIAgentOccupancy {
		t.Error("line items should follow input order")
	}
	sum := first.CostSavings + first.RevenueIncrease + first.ProductivityGains
	if sum != first.Annual() {
		t.Error("Annual should equal the category sum")
	}
	if len(first.ByCategory(RevenueIncrease)) != 1 {
		t.Error("expected one revenue line")
	}
}

func TestKeywordLabelsResolveToOneFormula(t *testing.T) {
	// Contains both "CLV" and "AHT"; only the CLV formula may fire.
	a := kpi("CLV uplift for AHT customers", map[string]float64{
		"currentCLV": 1000, "targetCLV": 1500, "customerBase": 10000, "churnRate": 20,
		"currentAHT": 10, "targetAHT": 6, "annualCalls": 100000, "costPerMinute": 0.5,
	})
	res := Derive([]assumption.KPIAssumption{a}, catalog.PlatformFieldServices)
	if len(res.LineItems) != 1 {
		t.Fatalf("expected exactly one line item, got %d", len(res.LineItems))
	}
	if res.CostSavings != 0 || res.RevenueIncrease != 1000000 {
		t.Errorf("unexpected totals %+v", res)
	}
}
