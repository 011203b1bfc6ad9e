// Package assumption holds the per-KPI inputs a user enters for a project.
// Values are sparse and keyed by the catalog field key; completeness is
// always judged against the catalog form for the project's platform.
package assumption

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"valuecase/pkg/core/catalog"
)

// =============================================================================
// VALUE (number or free text, as typed)
// =============================================================================

// Value is one form input. It keeps the raw text so that a numeric field
// holding a half-typed or malformed entry survives a save/load cycle.
type Value struct {
	raw     string
	numeric bool
}

// Number builds a numeric value.
func Number(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'f', -1, 64), numeric: true}
}

// Text builds a free-text value. Numeric-looking text still parses via Float.
func Text(s string) Value {
	return Value{raw: s}
}

// String returns the value as entered.
func (v Value) String() string { return v.raw }

// IsNumber reports whether the value was stored as a JSON number.
func (v Value) IsNumber() bool { return v.numeric }

// IsEmpty reports whether the field counts as unpopulated.
// A numeric zero is populated.
func (v Value) IsEmpty() bool {
	return strings.TrimSpace(v.raw) == ""
}

// Float coerces the value to a number. Anything unparseable, NaN or infinite
// becomes 0 so that formulas stay total over their input.
// Thousands separators and a trailing "%" are tolerated.
func (v Value) Float() float64 {
	s := strings.TrimSpace(v.raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON accepts a JSON number, string or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("assumption value must be a number or string: %w", err)
	}
	*v = Value{raw: n.String(), numeric: true}
	return nil
}

// =============================================================================
// KPI ASSUMPTION
// =============================================================================

// KPIAssumption is the user's inputs for one selected KPI.
type KPIAssumption struct {
	KPIName string           `json:"kpi_name"`
	Values  map[string]Value `json:"values"`
}

// Completeness is the badge count shown next to a KPI form.
type Completeness struct {
	Completed int `json:"completed"`
	Required  int `json:"required"`
}

// Complete is true when every required field is populated.
func (c Completeness) Complete() bool {
	return c.Completed == c.Required
}

// Get returns the value for a field key; missing keys are empty.
func (a KPIAssumption) Get(key string) Value {
	return a.Values[key]
}

// Float is shorthand for Get(key).Float().
func (a KPIAssumption) Float(key string) float64 {
	return a.Values[key].Float()
}

// Completeness counts populated required fields for the platform's form.
func (a KPIAssumption) Completeness(platform catalog.Platform) Completeness {
	req := catalog.RequiredFields(a.KPIName, platform)
	c := Completeness{Required: len(req)}
	for _, f := range req {
		if !a.Values[f.Key].IsEmpty() {
			c.Completed++
		}
	}
	return c
}

// Complete reports whether every required field is populated.
func (a KPIAssumption) Complete(platform catalog.Platform) bool {
	return a.Completeness(platform).Complete()
}

// HasValues reports whether any field, required or not, is populated.
func (a KPIAssumption) HasValues() bool {
	for _, v := range a.Values {
		if !v.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone deep-copies the values map.
func (a KPIAssumption) Clone() KPIAssumption {
	out := KPIAssumption{KPIName: a.KPIName, Values: make(map[string]Value, len(a.Values))}
	for k, v := range a.Values {
		out.Values[k] = v
	}
	return out
}
