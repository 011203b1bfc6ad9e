package catalog

// Range is a low/moderate/high improvement band shown next to an assumption form.
type Range struct {
	Low      string `json:"low"`
	Moderate string `json:"moderate"`
	High     string `json:"high"`
}

// SizeRanges holds a benchmark figure per company size band.
type SizeRanges struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// NotAvailable is the industry-average placeholder for KPIs without static data.
const NotAvailable = "Industry data not available"

var defaultRange = Range{
	Low:      "5-10% improvement",
	Moderate: "10-20% improvement",
	High:     "20-35% improvement",
}

var baselines = map[string]Range{
	KPIHandlingTime:       {"5-10% reduction in AHT", "10-20% reduction in AHT", "20-35% reduction in AHT"},
	KPIFirstCallRes:       {"5-10% improvement in FCR", "10-15% improvement in FCR", "15-25% improvement in FCR"},
	KPIAgentOccupancy:     {"3-5% increase in occupancy", "5-10% increase in occupancy", "10-15% increase in occupancy"},
	KPICustomerLifetime:   {"2-5% increase in CLV", "5-12% increase in CLV", "12-20% increase in CLV"},
	KPIRevenuePerCall:     {"3-8% increase in RPC", "8-15% increase in RPC", "15-25% increase in RPC"},
	KPICSAT:               {"0.2-0.5 point improvement", "0.5-1.0 point improvement", "1.0-1.5 point improvement"},
	KPINPS:                {"5-10 point improvement", "10-20 point improvement", "20-30 point improvement"},
	KPIOnboarding:         {"10-20% reduction in time to productivity", "20-35% reduction in time to productivity", "35-50% reduction in time to productivity"},
	KPIRetention:          {"5-10% reduction in attrition", "10-20% reduction in attrition", "20-30% reduction in attrition"},
	KPIFirstTimeFix:       {"5-10% improvement in fix rate", "10-20% improvement in fix rate", "20-30% improvement in fix rate"},
	KPIVisitDuration:      {"10-15% reduction in visit duration", "15-25% reduction in visit duration", "25-40% reduction in visit duration"},
	KPISecondTechnician:   {"15-25% reduction in 2-tech visits", "25-40% reduction in 2-tech visits", "40-60% reduction in 2-tech visits"},
	KPIRemoteResolution:   {"10-20% improvement in remote resolution", "20-35% improvement in remote resolution", "35-50% improvement in remote resolution"},
	KPIMissedAppointments: {"20-30% reduction in missed visits", "30-50% reduction in missed visits", "50-70% reduction in missed visits"},
	KPITravelAvoidance:    {"10-15% reduction in travel costs", "15-25% reduction in travel costs", "25-40% reduction in travel costs"},
	KPITravelDistance:     {"5-10% reduction in travel distance", "10-20% reduction in travel distance", "20-30% reduction in travel distance"},
	KPIOverhead:           {"5-10% reduction in overhead", "10-20% reduction in overhead", "20-35% reduction in overhead"},
	KPITechSpend:          {"10-20% reduction in tech spend", "20-35% reduction in tech spend", "35-50% reduction in tech spend"},
	KPICallAutomation:     {"5-10% more calls deflected", "10-20% more calls deflected", "20-30% more calls deflected"},
}

var industryAverages = map[string]map[Platform]SizeRanges{
	KPIHandlingTime: {
		PlatformFieldServices: {"8-12 minutes average AHT", "6-10 minutes average AHT", "4-8 minutes average AHT"},
		PlatformCCaaS:         {"6-9 minutes average AHT", "4-7 minutes average AHT", "3-5 minutes average AHT"},
	},
	KPIFirstCallRes: {
		PlatformFieldServices: {"65-75% FCR rate", "70-80% FCR rate", "75-85% FCR rate"},
		PlatformCCaaS:         {"70-80% FCR rate", "75-85% FCR rate", "80-90% FCR rate"},
	},
	KPIAgentOccupancy: {
		PlatformFieldServices: {"60-70% occupancy", "65-75% occupancy", "70-80% occupancy"},
		PlatformCCaaS:         {"65-75% occupancy", "70-80% occupancy", "75-85% occupancy"},
	},
	KPICustomerLifetime: {
		PlatformFieldServices: {"$2,000-$5,000 CLV", "$5,000-$15,000 CLV", "$15,000-$50,000 CLV"},
		PlatformCCaaS:         {"$1,500-$3,000 CLV", "$3,000-$8,000 CLV", "$8,000-$25,000 CLV"},
	},
	KPICSAT: {
		PlatformFieldServices: {"3.8-4.2 CSAT score", "4.0-4.4 CSAT score", "4.2-4.6 CSAT score"},
		PlatformCCaaS:         {"3.9-4.3 CSAT score", "4.1-4.5 CSAT score", "4.3-4.7 CSAT score"},
	},
	KPINPS: {
		PlatformFieldServices: {"20-35 NPS", "30-45 NPS", "40-60 NPS"},
		PlatformCCaaS:         {"25-40 NPS", "35-50 NPS", "45-65 NPS"},
	},
	KPIOnboarding: {
		PlatformFieldServices: {"45-60 days to productivity", "30-45 days to productivity", "20-35 days to productivity"},
	},
	KPIRetention: {
		PlatformFieldServices: {"15-25% annual attrition", "10-20% annual attrition", "8-15% annual attrition"},
	},
	KPIFirstTimeFix: {
		PlatformFieldServices: {"60-70% fix rate", "70-80% fix rate", "75-85% fix rate"},
	},
	KPIVisitDuration: {
		PlatformFieldServices: {"2-4 hours per visit", "1.5-3 hours per visit", "1-2.5 hours per visit"},
	},
	KPITravelDistance: {
		PlatformFieldServices: {"$50-$100 travel cost per visit", "$40-$80 travel cost per visit", "$30-$60 travel cost per visit"},
	},
}

// Baselines returns the static improvement bands for a KPI, or a generic band
// when the catalog has nothing specific.
func Baselines(kpiName string) Range {
	if r, ok := baselines[kpiName]; ok {
		return r
	}
	return defaultRange
}

// IndustryAverages returns static size-banded averages for a KPI on a platform.
// The bool is false when only the placeholder could be returned.
func IndustryAverages(kpiName string, platform Platform) (SizeRanges, bool) {
	if byPlatform, ok := industryAverages[kpiName]; ok {
		if r, ok := byPlatform[platform]; ok {
			return r, true
		}
	}
	return SizeRanges{Small: NotAvailable, Medium: NotAvailable, Large: NotAvailable}, false
}

// Pick selects the band for a company size ("small", "medium", "large").
// Unknown sizes fall back to medium.
func (s SizeRanges) Pick(size string) string {
	switch size {
	case "small":
		return s.Small
	case "large":
		return s.Large
	default:
		return s.Medium
	}
}
