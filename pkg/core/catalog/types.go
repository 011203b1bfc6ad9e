// Package catalog holds the static KPI taxonomy: the assumption fields each
// KPI asks for, the value trees KPIs are picked from, and the static
// baseline ranges used when no live benchmark data is available.
//
// Everything in this package is built once at init and never mutated.
package catalog

import (
	"errors"
	"strings"
)

// ErrUnknownPlatform is returned when a platform string cannot be normalized.
var ErrUnknownPlatform = errors.New("unknown platform")

// Platform identifies the solution family a project is scoped to.
type Platform string

const (
	PlatformCCaaS         Platform = "ccaas"
	PlatformFieldServices Platform = "field-services"
	PlatformCRM           Platform = "crm"
)

// ParsePlatform normalizes a free-form platform selection.
// "Field Service Management" -> field-services, "CCaaS" -> ccaas, "crm" -> crm.
func ParsePlatform(s string) (Platform, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(lower, "field") && strings.Contains(lower, "service"):
		return PlatformFieldServices, nil
	case strings.Contains(lower, "ccaas"):
		return PlatformCCaaS, nil
	case strings.Contains(lower, "crm"):
		return PlatformCRM, nil
	}
	return "", ErrUnknownPlatform
}

// ValueType is the input type of an assumption field.
type ValueType string

const (
	ValueNumber ValueType = "number"
	ValueText   ValueType = "text"
)

// FieldSpec describes one input on a KPI assumption form.
type FieldSpec struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	ValueType ValueType `json:"value_type"`
	Required  bool      `json:"required"`
	// Platform restricts the field to a single platform variant. Empty means always shown.
	Platform Platform `json:"platform_restriction,omitempty"`
}

// Definition is one catalog entry.
type Definition struct {
	Name   string      `json:"name"`
	Kind   Kind        `json:"kind"`
	Fields []FieldSpec `json:"fields"`
}

// Kind identifies which benefit formula a KPI feeds. KindNone KPIs are
// tracked but carry no automatic dollar derivation.
type Kind string

const (
	KindNone                   Kind = ""
	KindHandlingTime           Kind = "handling_time"
	KindCallAutomation         Kind = "call_automation"
	KindFirstContactResolution Kind = "first_contact_resolution"
	KindAgentEfficiency        Kind = "agent_efficiency"
	KindCustomerLifetimeValue  Kind = "customer_lifetime_value"
	KindRevenuePerCall         Kind = "revenue_per_call"
	KindSatisfaction           Kind = "satisfaction"
	KindOnboarding             Kind = "technician_onboarding"
	KindRetention              Kind = "technician_retention"
	KindFirstTimeFix           Kind = "first_time_fix"
	KindVisitDuration          Kind = "visit_duration"
	KindSecondTechnician       Kind = "second_technician"
	KindRemoteResolution       Kind = "remote_resolution"
	KindMissedAppointments     Kind = "missed_appointments"
	KindTravelAvoidance        Kind = "travel_avoidance"
	KindTravelDistance         Kind = "travel_distance"
)

func num(key, label string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: label, ValueType: ValueNumber, Required: required}
}

func text(key, label string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: label, ValueType: ValueText, Required: required}
}

func only(p Platform, f FieldSpec) FieldSpec {
	f.Platform = p
	return f
}
