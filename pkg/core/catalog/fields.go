package catalog

import "strings"

// Lookup returns the catalog entry with exactly this name.
func Lookup(name string) (Definition, bool) {
	d, ok := byName[name]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

// Names lists every catalog KPI in catalog order.
func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// FieldsFor returns the form fields for a KPI on a platform.
//
// Resolution is exact name first, then the form of whatever formula Resolve
// picks for the name, then a loose match comparing the first word of the
// name against catalog entries, then the generic default form. Only the
// first two steps tie the form to a formula: a label that Resolve maps to
// KindNone can still get a loose-match form, and completing it yields no
// benefit. Callers that need to tell the two apart check Derives.
// Platform-restricted fields are filtered so that exactly one handling-time
// target variant is ever shown.
func FieldsFor(kpiName string, platform Platform) []FieldSpec {
	var fields []FieldSpec
	if d, ok := byName[kpiName]; ok {
		fields = d.Fields
	} else if d, ok := byKind[Resolve(kpiName)]; ok {
		fields = d.Fields
	} else if d := looseMatch(kpiName); d != nil {
		fields = d.Fields
	} else {
		fields = defaultFields
	}

	out := make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		if !fieldVisible(f, platform) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// RequiredFields is FieldsFor filtered down to the required entries.
func RequiredFields(kpiName string, platform Platform) []FieldSpec {
	var out []FieldSpec
	for _, f := range FieldsFor(kpiName, platform) {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

func fieldVisible(f FieldSpec, platform Platform) bool {
	switch f.Platform {
	case "":
		return true
	case PlatformCCaaS:
		return platform == PlatformCCaaS
	default:
		// Every non-ccaas restriction is the field-service variant.
		return platform != PlatformCCaaS
	}
}

func looseMatch(kpiName string) *Definition {
	name := strings.ToLower(strings.TrimSpace(kpiName))
	nameWord := firstWord(name)
	if nameWord == "" {
		return nil
	}
	for i := range definitions {
		key := strings.ToLower(definitions[i].Name)
		if strings.Contains(name, firstWord(key)) || strings.Contains(key, nameWord) {
			return &definitions[i]
		}
	}
	return nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

type kindRule struct {
	kind  Kind
	match func(name string) bool
}

func has(subs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

func every(preds ...func(string) bool) func(string) bool {
	return func(name string) bool {
		for _, p := range preds {
			if !p(name) {
				return false
			}
		}
		return true
	}
}

// kindRules is evaluated in order and the first hit wins, so a label that
// carries several trigger words still maps to exactly one formula.
var kindRules = []kindRule{
	{KindCustomerLifetimeValue, has("Customer Lifetime Value", "CLV")},
	{KindCallAutomation, has("Call Automation", "calls deflected")},
	{KindHandlingTime, has("AHT", "Average handling time")},
	{KindFirstContactResolution, has("FCR", "First Call Resolution")},
	{KindAgentEfficiency, every(has("Agent"), has("occupancy", "efficiency", "Productivity"))},
	{KindRevenuePerCall, has("RPC", "Revenue per Call", "revenue per call")},
	{KindSatisfaction, has("CSAT", "Customer Satisfaction", "satisfaction")},
	{KindOnboarding, every(has("employee onboarding"), has("field technician"))},
	{KindFirstTimeFix, has("first-time visit fix")},
	{KindSecondTechnician, has("avoid 2nd technician", "2nd technician costs")},
	{KindVisitDuration, every(has("service resolution effort"), has("time"))},
	{KindRemoteResolution, every(has("on-site service visits"), has("contact center", "remote assist"))},
	{KindRetention, every(has("employee retention"), has("field technician"))},
	{KindMissedAppointments, has("missed appointments", "reduce missed")},
	{KindTravelAvoidance, every(has("travel costs"), has("avoid unnecessary visits"))},
	{KindTravelDistance, every(has("travel costs"), has("travelling distance"))},
}

// Derives reports whether a KPI name feeds any benefit formula.
func Derives(kpiName string) bool {
	return Resolve(kpiName) != KindNone
}

// Resolve maps a KPI name to its benefit formula. Catalog names resolve
// exactly; other labels go through the ordered keyword rules.
func Resolve(kpiName string) Kind {
	if d, ok := byName[kpiName]; ok {
		return d.Kind
	}
	for _, r := range kindRules {
		if r.match(kpiName) {
			return r.kind
		}
	}
	return KindNone
}
