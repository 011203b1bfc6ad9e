package benefit

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"valuecase/pkg/core/assumption"
	"valuecase/pkg/core/catalog"
)

// printer groups thousands in explanation strings.
var printer = message.NewPrinter(language.English)

type inputs struct {
	a assumption.KPIAssumption
}

func (in inputs) f(key string) float64 { return in.a.Float(key) }

// positive reports whether every argument is > 0.
func positive(vs ...float64) bool {
	for _, v := range vs {
		if !(v > 0) {
			return false
		}
	}
	return true
}

type formula struct {
	category Category
	apply    func(in inputs) (float64, string, bool)
}

// Percent inputs are whole numbers (20 means 20%) and are divided by 100
// where they scale a volume. Handling time, CLV and RPC deltas are absolute.
var formulas = map[catalog.Kind]formula{
	catalog.KindHandlingTime:           {CostSaving, handlingTime},
	catalog.KindCallAutomation:         {CostSaving, callAutomation},
	catalog.KindFirstContactResolution: {CostSaving, firstContactResolution},
	catalog.KindAgentEfficiency:        {ProductivityGain, agentEfficiency},
	catalog.KindCustomerLifetimeValue:  {RevenueIncrease, customerLifetimeValue},
	catalog.KindRevenuePerCall:         {RevenueIncrease, revenuePerCall},
	catalog.KindSatisfaction:           {RevenueIncrease, satisfaction},
	catalog.KindOnboarding:             {CostSaving, onboarding},
	catalog.KindRetention:              {CostSaving, retention},
	catalog.KindFirstTimeFix:           {CostSaving, firstTimeFix},
	catalog.KindVisitDuration:          {CostSaving, visitDuration},
	catalog.KindSecondTechnician:       {CostSaving, secondTechnician},
	catalog.KindRemoteResolution:       {CostSaving, remoteResolution},
	catalog.KindMissedAppointments:     {CostSaving, missedAppointments},
	catalog.KindTravelAvoidance:        {CostSaving, travelAvoidance},
	catalog.KindTravelDistance:         {CostSaving, travelDistance},
}

// handlingTime takes the target either as a reduction percentage off the
// current value (ccaas form) or as an absolute minute value (field service form).
func handlingTime(in inputs) (float64, string, bool) {
	current := in.f("currentAHT")
	reduction := in.f("targetAHTReduction")
	calls := in.f("annualCalls")
	rate := in.f("costPerMinute")

	target := in.f("targetAHT")
	targetDesc := printer.Sprintf("%v min target", target)
	if reduction > 0 {
		target = current * (1 - reduction/100)
		targetDesc = printer.Sprintf("%v%% off %v min", reduction, current)
	}
	if !(current > target) || !positive(calls, rate) {
		return 0, "", false
	}
	saved := current - target
	amount := saved * calls * rate
	return amount, printer.Sprintf("%.1f min reduction (%s) × %.0f calls × $%.2f/min", saved, targetDesc, calls, rate), true
}

func callAutomation(in inputs) (float64, string, bool) {
	current, target := in.f("currentFCR"), in.f("targetFCR")
	calls, cost := in.f("annualCalls"), in.f("repeatCallCost")
	if !(target > current) || !positive(calls, cost) {
		return 0, "", false
	}
	gain := (target - current) / 100
	return gain * calls * cost,
		printer.Sprintf("%.1f%% automation increase × %.0f calls × $%v/call", gain*100, calls, cost), true
}

func firstContactResolution(in inputs) (float64, string, bool) {
	current, target := in.f("currentFCR"), in.f("targetFCR")
	calls, cost := in.f("annualCalls"), in.f("repeatCallCost")
	if !(target > current) || !positive(calls, cost) {
		return 0, "", false
	}
	gain := (target - current) / 100
	return gain * calls * cost,
		printer.Sprintf("%.1f%% improvement × %.0f calls × $%v/repeat call", gain*100, calls, cost), true
}

func agentEfficiency(in inputs) (float64, string, bool) {
	current, target := in.f("currentOccupancy"), in.f("targetOccupancy")
	agents, salary := in.f("numberOfAgents"), in.f("avgAgentSalary")
	if !(target > current) || !positive(agents, salary) {
		return 0, "", false
	}
	gain := (target - current) / 100
	return gain * agents * salary,
		printer.Sprintf("%.1f%% efficiency gain × %.0f agents × $%.0f/agent/year", gain*100, agents, salary), true
}

// customerLifetimeValue values the CLV delta on the customers replaced each
// year through churn.
func customerLifetimeValue(in inputs) (float64, string, bool) {
	current, target := in.f("currentCLV"), in.f("targetCLV")
	base, churn := in.f("customerBase"), in.f("churnRate")
	if !(target > current) || !positive(base) {
		return 0, "", false
	}
	delta := target - current
	replaced := base * churn / 100
	return delta * replaced,
		printer.Sprintf("$%.0f CLV increase × %.0f annual customers", delta, replaced), true
}

func revenuePerCall(in inputs) (float64, string, bool) {
	current, target := in.f("currentRPC"), in.f("targetRPC")
	calls := in.f("annualCalls")
	if !(target > current) || !positive(calls) {
		return 0, "", false
	}
	delta := target - current
	return delta * calls, printer.Sprintf("$%.2f increase × %.0f calls", delta, calls), true
}

func satisfaction(in inputs) (float64, string, bool) {
	current, target := in.f("currentCSAT"), in.f("targetCSAT")
	responses, impact, revenue := in.f("surveyResponses"), in.f("retentionImpact"), in.f("revenuePerCustomer")
	if !(target > current) || !positive(responses, impact, revenue) {
		return 0, "", false
	}
	improvement := (target - current) / 100
	retained := improvement * (impact / 100)
	return retained * responses * 12 * revenue,
		printer.Sprintf("%.1f%% satisfaction × %v%% retention impact × %.0f monthly responses × 12 × $%v/customer",
			improvement*100, impact, responses, revenue), true
}

func onboarding(in inputs) (float64, string, bool) {
	ftes := in.f("fieldServiceFTEs")
	onboarded := in.f("ftesOnboardedPerYear")
	days := in.f("currentTimeToProductivity")
	daily := in.f("dailyCostFieldServiceFTE")
	reduction := in.f("timeToProductivityReduction")
	if !positive(ftes, onboarded, days, daily, reduction) {
		return 0, "", false
	}
	return ftes * (onboarded / 100) * days * daily * (reduction / 100),
		printer.Sprintf("%.0f FTEs × %v%% onboarded × %v days × $%v/day × %v%% reduction",
			ftes, onboarded, days, daily, reduction), true
}

func retention(in inputs) (float64, string, bool) {
	ftes := in.f("fieldServiceFTEs")
	attrition := in.f("fieldServiceAttritionRate")
	hiring := in.f("costOfHiring")
	reduction := in.f("attritionRateReduction")
	if !positive(ftes, attrition, hiring, reduction) {
		return 0, "", false
	}
	return ftes * (attrition / 100) * hiring * (reduction / 100),
		printer.Sprintf("%.0f FTEs × %v%% attrition rate × $%.0f/hire × %v%% reduction",
			ftes, attrition, hiring, reduction), true
}

func firstTimeFix(in inputs) (float64, string, bool) {
	cases, rate := in.f("totalFieldServiceCases"), in.f("currentResolutionRate")
	visits, cost := in.f("avgVisitsPerCase"), in.f("costPerVisit")
	improvement := in.f("resolutionRateImprovement")
	if !positive(cases, rate, visits, cost, improvement) {
		return 0, "", false
	}
	return cases * (rate / 100) * visits * cost * (improvement / 100),
		printer.Sprintf("%.0f cases × %v%% resolution rate × %v visits/case × $%v/visit × %v%% improvement",
			cases, rate, visits, cost, improvement), true
}

func visitDuration(in inputs) (float64, string, bool) {
	cases, visits := in.f("totalFieldServiceCases"), in.f("avgVisitsPerCase")
	cost, reduction := in.f("costPerVisit"), in.f("visitDurationReduction")
	if !positive(cases, visits, cost, reduction) {
		return 0, "", false
	}
	return cases * visits * cost * (reduction / 100),
		printer.Sprintf("%.0f cases × %v visits/case × $%v/visit × %v%% duration reduction",
			cases, visits, cost, reduction), true
}

func remoteResolution(in inputs) (float64, string, bool) {
	cases, rate := in.f("totalFieldServiceCases"), in.f("currentContactCenterResolutionRate")
	visits, cost := in.f("avgVisitsPerCase"), in.f("costPerVisit")
	improvement := in.f("contactCenterResolutionImprovement")
	if !positive(cases, rate, visits, cost, improvement) {
		return 0, "", false
	}
	return cases * (rate / 100) * visits * cost * (improvement / 100),
		printer.Sprintf("%.0f cases × %v%% contact center resolution × %v visits/case × $%v/visit × %v%% improvement",
			cases, rate, visits, cost, improvement), true
}

func missedAppointments(in inputs) (float64, string, bool) {
	cases, visits := in.f("totalFieldServiceCases"), in.f("avgVisitsPerCase")
	missed, cost := in.f("currentMissedVisitsRate"), in.f("costPerVisit")
	reduction := in.f("missedVisitsReduction")
	if !positive(cases, visits, missed, cost, reduction) {
		return 0, "", false
	}
	return cases * visits * (missed / 100) * cost * (reduction / 100),
		printer.Sprintf("%.0f cases × %v visits/case × %v%% missed rate × $%v/visit × %v%% reduction",
			cases, visits, missed, cost, reduction), true
}

func secondTechnician(in inputs) (float64, string, bool) {
	cases, visits := in.f("totalFieldServiceCases"), in.f("avgVisitsPerCase")
	share, cost := in.f("visitsRequiring2Technicians"), in.f("costPerVisit")
	reduction := in.f("reductionIn2TechnicianVisits")
	if !positive(cases, visits, share, cost, reduction) {
		return 0, "", false
	}
	return cases * visits * (share / 100) * cost * (reduction / 100),
		printer.Sprintf("%.0f cases × %v visits/case × %v%% requiring 2 techs × $%v/visit × %v%% reduction",
			cases, visits, share, cost, reduction), true
}

func travelAvoidance(in inputs) (float64, string, bool) {
	cases, rate := in.f("totalFieldServiceCases"), in.f("currentResolutionRate")
	visits, travel := in.f("avgVisitsPerCase"), in.f("travelCostPerVisit")
	improvement := in.f("resolutionRateImprovement")
	if !positive(cases, rate, visits, travel, improvement) {
		return 0, "", false
	}
	return cases * (rate / 100) * visits * travel * (improvement / 100),
		printer.Sprintf("%.0f cases × %v%% resolution rate × %v visits/case × $%v/visit × %v%% improvement",
			cases, rate, visits, travel, improvement), true
}

func travelDistance(in inputs) (float64, string, bool) {
	cases, travel := in.f("totalFieldServiceCases"), in.f("travelCostPerVisit")
	visits, reduction := in.f("avgVisitsPerCase"), in.f("travelDistanceReduction")
	if !positive(cases, travel, visits, reduction) {
		return 0, "", false
	}
	return cases * travel * visits * (reduction / 100),
		printer.Sprintf("%.0f cases × $%v/visit × %v visits/case × %v%% distance reduction",
			cases, travel, visits, reduction), true
}
