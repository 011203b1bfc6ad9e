package catalog

// Canonical KPI names as they appear in the value trees.
const (
	KPIHandlingTime       = "AHT – Average handling time"
	KPICallAutomation     = "Call Automation: Decreased cost per interaction (CPC%) - % calls deflected"
	KPIFirstCallRes       = "FCR – First Call Resolution / IVR Containment"
	KPIAgentOccupancy     = "Agent occupancy/efficiency"
	KPICustomerLifetime   = "Customer Lifetime Value"
	KPIRevenuePerCall     = "RPC – Revenue per Call"
	KPICSAT               = "CSAT (voice, email, self-serve)"
	KPINPS                = "NPS score"
	KPIOverhead           = "Overhead cost"
	KPITechSpend          = "Reduced technology/software spend"
	KPIOnboarding         = "Improve employee onboarding: field technician"
	KPIRetention          = "Improve employee retention: field technician"
	KPIFirstTimeFix       = "Increase first-time visit fix rate"
	KPIVisitDuration      = "Reduce service resolution effort: time"
	KPISecondTechnician   = "Reduce service resolution effort: avoid 2nd technician costs"
	KPIRemoteResolution   = "Reduce number of on-site service visits: contact center / remote assist"
	KPIMissedAppointments = "Reduce number of on-site service visits: reduce missed appointments"
	KPITravelAvoidance    = "Reduce travel costs: avoid unnecessary visits"
	KPITravelDistance     = "Reduce travel costs: travelling distance"
)

var (
	fieldServiceCases = num("totalFieldServiceCases", "Total # of Field Service Cases per year", true)
	visitsPerCase     = num("avgVisitsPerCase", "Average Number of Visits per case", true)
	costPerVisit      = num("costPerVisit", "Cost per field service visit ($)", true)
	travelCost        = num("travelCostPerVisit", "Travel cost per visit ($)", true)
	fieldServiceFTEs  = num("fieldServiceFTEs", "Field Service FTEs", true)
	annualCalls       = num("annualCalls", "Annual Number of Calls", true)
)

// definitions is ordered; the loose name fallback in FieldsFor scans it front to back.
var definitions = []Definition{
	{
		Name: KPIHandlingTime,
		Kind: KindHandlingTime,
		Fields: []FieldSpec{
			num("currentAHT", "Current AHT (minutes)", true),
			only(PlatformCCaaS, num("targetAHTReduction", "Target AHT Reduction (%)", true)),
			only(PlatformFieldServices, num("targetAHT", "Target AHT (minutes)", true)),
			annualCalls,
			num("costPerMinute", "Cost per Minute ($)", true),
			num("implementationTime", "Time to Achieve Target (months)", false),
		},
	},
	{
		Name: KPIOnboarding,
		Kind: KindOnboarding,
		Fields: []FieldSpec{
			fieldServiceFTEs,
			num("ftesOnboardedPerYear", "Field Service FTEs Onboarded per year (%)", true),
			num("currentTimeToProductivity", "Current time to productivity for Field Service FTEs (business days)", true),
			num("dailyCostFieldServiceFTE", "Daily cost of field service FTE ($)", true),
			num("timeToProductivityReduction", "Field service time-to-productivity reduction (%)", true),
		},
	},
	{
		Name: KPIRetention,
		Kind: KindRetention,
		Fields: []FieldSpec{
			fieldServiceFTEs,
			num("fieldServiceAttritionRate", "Field Service FTE Attrition Rate (%)", true),
			num("costOfHiring", "Cost of searching and hiring a new Field Service FTE ($)", true),
			num("attritionRateReduction", "Field Service FTE attrition rate reduction (%)", true),
		},
	},
	{
		Name: KPIFirstTimeFix,
		Kind: KindFirstTimeFix,
		Fields: []FieldSpec{
			fieldServiceCases,
			num("currentResolutionRate", "Current field service resolution Rate (%)", true),
			visitsPerCase,
			costPerVisit,
			num("resolutionRateImprovement", "Improvement in Field Service resolution rate (%)", true),
		},
	},
	{
		Name: KPIVisitDuration,
		Kind: KindVisitDuration,
		Fields: []FieldSpec{
			fieldServiceCases,
			visitsPerCase,
			costPerVisit,
			num("visitDurationReduction", "Reduction in visit duration (%)", true),
		},
	},
	{
		Name: KPISecondTechnician,
		Kind: KindSecondTechnician,
		Fields: []FieldSpec{
			fieldServiceCases,
			visitsPerCase,
			num("visitsRequiring2Technicians", "Visits requiring 2 technicians (%)", true),
			costPerVisit,
			num("reductionIn2TechnicianVisits", "Reduction in visits requiring 2 technicians (%)", true),
		},
	},
	{
		Name: KPIRemoteResolution,
		Kind: KindRemoteResolution,
		Fields: []FieldSpec{
			fieldServiceCases,
			num("currentContactCenterResolutionRate", "Current Contact Center resolution rate (%)", true),
			visitsPerCase,
			costPerVisit,
			num("contactCenterResolutionImprovement", "Improvement in Contact Center resolution rate (%)", true),
		},
	},
	{
		Name: KPIMissedAppointments,
		Kind: KindMissedAppointments,
		Fields: []FieldSpec{
			fieldServiceCases,
			num("currentMissedVisitsRate", "Current missed visits rate (%)", true),
			visitsPerCase,
			costPerVisit,
			num("missedVisitsReduction", "Reduction in missed visits rate (%)", true),
		},
	},
	{
		Name: KPITravelAvoidance,
		Kind: KindTravelAvoidance,
		Fields: []FieldSpec{
			fieldServiceCases,
			num("currentResolutionRate", "Current field service resolution Rate (%)", true),
			visitsPerCase,
			travelCost,
			num("resolutionRateImprovement", "Improvement in Field Service resolution rate (%)", true),
		},
	},
	{
		Name: KPITravelDistance,
		Kind: KindTravelDistance,
		Fields: []FieldSpec{
			fieldServiceCases,
			travelCost,
			visitsPerCase,
			num("travelDistanceReduction", "Reduction in travel distance per visit (%)", true),
		},
	},
	{
		Name: KPIFirstCallRes,
		Kind: KindFirstContactResolution,
		Fields: []FieldSpec{
			num("currentFCR", "Current FCR Rate (%)", true),
			num("targetFCR", "Target FCR Rate (%)", true),
			annualCalls,
			num("repeatCallCost", "Cost per Repeat Call ($)", true),
			num("avgResolutionTime", "Average Resolution Time (minutes)", false),
		},
	},
	{
		Name: KPIAgentOccupancy,
		Kind: KindAgentEfficiency,
		Fields: []FieldSpec{
			num("currentOccupancy", "Current Agent Occupancy (%)", true),
			num("targetOccupancy", "Target Agent Occupancy (%)", true),
			num("numberOfAgents", "Number of Agents", true),
			num("avgAgentSalary", "Average Agent Salary ($)", true),
			num("workingHoursPerDay", "Working Hours per Day", false),
		},
	},
	{
		Name: KPICustomerLifetime,
		Kind: KindCustomerLifetimeValue,
		Fields: []FieldSpec{
			num("currentCLV", "Current Customer Lifetime Value ($)", true),
			num("targetCLV", "Target Customer Lifetime Value ($)", true),
			num("customerBase", "Total Customer Base", true),
			num("churnRate", "Current Churn Rate (%)", true),
			num("acquisitionCost", "Customer Acquisition Cost ($)", false),
		},
	},
	{
		Name: KPIRevenuePerCall,
		Kind: KindRevenuePerCall,
		Fields: []FieldSpec{
			num("currentRPC", "Current Revenue per Call ($)", true),
			num("targetRPC", "Target Revenue per Call ($)", true),
			annualCalls,
			num("conversionRate", "Current Conversion Rate (%)", true),
			num("avgOrderValue", "Average Order Value ($)", false),
		},
	},
	{
		Name: KPICSAT,
		Kind: KindSatisfaction,
		Fields: []FieldSpec{
			num("currentCSAT", "Current CSAT Score", true),
			num("targetCSAT", "Target CSAT Score", true),
			num("surveyResponses", "Monthly Survey Responses", true),
			num("retentionImpact", "CSAT Impact on Retention (%)", true),
			num("revenuePerCustomer", "Average Revenue per Customer ($)", true),
		},
	},
	{
		Name: KPINPS,
		Fields: []FieldSpec{
			num("currentNPS", "Current NPS Score", true),
			num("targetNPS", "Target NPS Score", true),
			num("customerBase", "Total Customer Base", true),
			num("referralRate", "Referral Rate per Promoter (%)", true),
			num("referralValue", "Average Value per Referral ($)", false),
		},
	},
	{
		Name: KPIOverhead,
		Fields: []FieldSpec{
			num("currentOverhead", "Current Monthly Overhead Cost ($)", true),
			num("targetReduction", "Target Cost Reduction (%)", true),
			text("costCategories", "Main Cost Categories", false),
			num("implementationCost", "Implementation Cost ($)", false),
		},
	},
	{
		Name: KPITechSpend,
		Fields: []FieldSpec{
			num("currentTechSpend", "Current Annual Tech Spend ($)", true),
			num("targetReduction", "Target Reduction (%)", true),
			num("licenseCosts", "Current License Costs ($)", true),
			num("maintenanceCosts", "Current Maintenance Costs ($)", true),
			num("newSolutionCost", "New Solution Annual Cost ($)", false),
		},
	},
	{
		Name: KPICallAutomation,
		Kind: KindCallAutomation,
		Fields: []FieldSpec{
			num("currentFCR", "Current Automation / Deflection Rate (%)", true),
			num("targetFCR", "Target Automation / Deflection Rate (%)", true),
			annualCalls,
			num("repeatCallCost", "Cost per Agent-Handled Call ($)", true),
		},
	},
}

// defaultFields is the generic form used for KPIs the catalog does not know.
var defaultFields = []FieldSpec{
	num("currentValue", "Current Value", true),
	num("targetValue", "Target Value", true),
	text("baselineData", "Baseline Data Source", false),
	text("assumptions", "Key Assumptions", false),
}

var (
	byName map[string]*Definition
	// byKind maps a formula to the catalog entry whose form feeds it.
	byKind map[Kind]*Definition
)

func init() {
	byName = make(map[string]*Definition, len(definitions))
	byKind = make(map[Kind]*Definition)
	for i := range definitions {
		d := &definitions[i]
		byName[d.Name] = d
		if _, seen := byKind[d.Kind]; d.Kind != KindNone && !seen {
			byKind[d.Kind] = d
		}
	}
}
