package catalog

// RoiTypeROM is the rough-order-of-magnitude project mode.
const RoiTypeROM = "rom-bvc"

// MaxKPIs returns the KPI selection cap for a project mode; 0 means unlimited.
func MaxKPIs(roiType string) int {
	if roiType == RoiTypeROM {
		return 4
	}
	return 0
}

// Objective is a selectable strategic objective and the KPIs that measure it.
type Objective struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ValueDriver string   `json:"value_driver"`
	Primary     bool     `json:"primary,omitempty"`
	KPIs        []string `json:"kpis"`
}

// Lever groups objectives under a financial lever.
type Lever struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Objectives []Objective `json:"objectives"`
}

// ValueTree is the lever -> objective -> KPI hierarchy for one platform.
type ValueTree struct {
	Platform           Platform `json:"platform"`
	StrategicObjective string   `json:"strategic_objective"`
	Levers             []Lever  `json:"levers"`
}

// Objectives flattens the tree in display order.
func (t ValueTree) Objectives() []Objective {
	var out []Objective
	for _, l := range t.Levers {
		out = append(out, l.Objectives...)
	}
	return out
}

// Objective finds an objective by id.
func (t ValueTree) Objective(id string) (Objective, bool) {
	for _, o := range t.Objectives() {
		if o.ID == id {
			return o, true
		}
	}
	return Objective{}, false
}

// DetectPlatform is ParsePlatform with the value-tree default: anything
// unrecognized is shown the CCaaS tree.
func DetectPlatform(s string) Platform {
	p, err := ParsePlatform(s)
	if err != nil {
		return PlatformCCaaS
	}
	return p
}

// ValueTreeFor returns the tree for a platform. The returned value shares no
// slices with the package tables.
func ValueTreeFor(p Platform) ValueTree {
	var src ValueTree
	switch p {
	case PlatformFieldServices:
		src = fieldServicesTree
	case PlatformCRM:
		src = crmTree
	default:
		src = ccaasTree
	}
	out := ValueTree{Platform: src.Platform, StrategicObjective: src.StrategicObjective}
	for _, l := range src.Levers {
		nl := Lever{ID: l.ID, Name: l.Name}
		for _, o := range l.Objectives {
			o.KPIs = append([]string(nil), o.KPIs...)
			nl.Objectives = append(nl.Objectives, o)
		}
		out.Levers = append(out.Levers, nl)
	}
	return out
}

var ccaasTree = ValueTree{
	Platform:           PlatformCCaaS,
	StrategicObjective: "CCaaS Value",
	Levers: []Lever{
		{
			ID:   "cost-optimization",
			Name: "Cost Optimization",
			Objectives: []Objective{
				{
					ID:          "reduce-labor-cost",
					Title:       "1. Reduce Labor Cost",
					ValueDriver: "Agent Efficiency Productivity",
					KPIs: []string{
						KPIHandlingTime,
						KPICallAutomation,
						KPIAgentOccupancy,
						"After call work",
						"Average queue time",
						"New employee training days",
					},
				},
				{
					ID:          "increase-operational-efficiency",
					Title:       "2. Increase Operational Efficiency",
					ValueDriver: "Reduce Cost-to-Serve",
					KPIs: []string{
						KPIFirstCallRes,
						"Self-service expansion",
						"% agent disputes",
						"% supervisor escalations",
						"Supervisor to staff ratio",
					},
				},
				{
					ID:          "reduce-fixed-costs",
					Title:       "3. Reduce Fixed Costs",
					ValueDriver: "Overhead / Technology Spend",
					KPIs:        []string{KPIOverhead, KPITechSpend},
				},
			},
		},
		{
			ID:   "revenue-uplift",
			Name: "Revenue Uplift",
			Objectives: []Objective{
				{
					ID:          "increase-revenue",
					Title:       "4. Increase Revenue – Customer Brand Promotion",
					ValueDriver: "Increase Customer Value: Cross-sell / Up-sell",
					KPIs: []string{
						KPICustomerLifetime,
						KPIRevenuePerCall,
						"Conversion rates",
						"Service expansion",
						"Customer Retention",
						"Lead Prioritization",
					},
				},
			},
		},
		{
			ID:   "elevate-cx",
			Name: "Elevate CX",
			Objectives: []Objective{
				{
					ID:          "increase-cx-effectiveness",
					Title:       "5. Increase CX Effectiveness",
					ValueDriver: "User Satisfaction",
					KPIs: []string{
						KPICSAT,
						KPINPS,
						"Abandon rate",
						"Churn prediction (sentiment)",
						"Reduce call transfer rate (agent to agent)",
						"Reduced customer frustration & efforts",
						"Increased customer retention & trust",
						"Bookings & revenue per call",
					},
				},
			},
		},
	},
}

var fieldServicesTree = ValueTree{
	Platform:           PlatformFieldServices,
	StrategicObjective: "Field Services Value",
	Levers: []Lever{
		{
			ID:   "cost-reduction",
			Name: "Cost Reduction",
			Objectives: []Objective{
				{
					ID:          "increase-operational-efficiency",
					Title:       "Increase Operational Efficiency",
					ValueDriver: "Efficiency Productivity",
					KPIs: []string{
						KPIOnboarding,
						KPIRetention,
						KPIFirstTimeFix,
						"Reduce case resolution time",
						"Reduce case volume: channel shift",
						KPIRemoteResolution,
						KPIMissedAppointments,
						KPISecondTechnician,
						KPIVisitDuration,
						KPITravelAvoidance,
						KPITravelDistance,
					},
				},
			},
		},
	},
}

// The CRM tree has no lever layer; its objectives hang off a single group.
var crmTree = ValueTree{
	Platform:           PlatformCRM,
	StrategicObjective: "CRM Value",
	Levers: []Lever{
		{
			ID:   "crm-value",
			Name: "CRM Value",
			Objectives: []Objective{
				{
					ID: "increase-sales-opportunities", Title: "Increase Sales Opportunities",
					ValueDriver: "Improve Revenue", Primary: true,
					KPIs: []string{
						"Average Sale/Customer",
						"Opportunity Win Rate",
						"Proposed Margin/Target Margin by Customer",
						"New business opportunities/new customers",
						"New Customer Engagement/Opportunity",
						"Opportunity Lead-Time/Customer",
					},
				},
				{
					ID: "increase-customer-retention", Title: "Increase Customer Retention",
					ValueDriver: "Incumbency Success",
					KPIs: []string{
						"Net Follow-On Revenue/Incumbent Contracts",
						KPICustomerLifetime,
					},
				},
				{
					ID: "increase-expansion", Title: "Increase Expansion",
					ValueDriver: "Cross Selling and Upselling",
					KPIs: []string{
						"Net-New Revenue per Customer",
						"New Product/Service Diversification by Customer",
					},
				},
				{
					ID: "reduce-customer-costs", Title: "Reduce Customer Costs",
					ValueDriver: "Reduce Costs", Primary: true,
					KPIs: []string{
						"Resource Utilization – FTE Cost",
						"CRM Solution Cost/Cost of Sales",
						"Customer/Opportunity Retention Costs",
					},
				},
				{
					ID: "increase-operational-efficiency", Title: "Increase Operational Efficiency",
					ValueDriver: "Sales Team Efficiency", Primary: true,
					KPIs: []string{
						"Opportunity Response Time (by Stage)",
						"New Employee Ramp Up time (onboarding)",
						"Employee Productivity Improvement",
					},
				},
				{
					ID: "increase-employee-satisfaction", Title: "Increase Employee Satisfaction",
					ValueDriver: "Improve Employee Satisfaction",
					KPIs: []string{
						"CRM Adoption Rates (Usage Rate)",
						"Employee Satisfaction/Sentiment (Pulse Survey)",
					},
				},
				{
					ID: "increase-customer-satisfaction", Title: "Increase Customer Satisfaction",
					ValueDriver: "Improve Customer Service Level",
					KPIs: []string{
						"Customer Satisfaction Score (CSAT)",
						"Award/Incentive Fee Conversion Rate",
					},
				},
			},
		},
	},
}
