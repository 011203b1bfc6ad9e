package assumption

import (
	"encoding/json"
	"testing"

	"valuecase/pkg/core/catalog"
)

func TestValue_Float(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{Number(12.5), 12.5},
		{Text("20"), 20},
		{Text(" 20% "), 20},
		{Text("1,000,000"), 1000000},
		{Text("abc"), 0},
		{Text(""), 0},
		{Text("NaN"), 0},
		{Text("Inf"), 0},
	}
	for _, c := range cases {
		if got := c.v.Float(); got != c.want {
			t.Errorf("Float(%q) = %v, want %v", c.v.String(), got, c.want)
		}
	}
}

func TestValue_IsEmpty(t *testing.T) {
	if !Text("   ").IsEmpty() {
		t.Error("whitespace should be empty")
	}
	if Number(0).IsEmpty() {
		t.Error("numeric zero is a populated value")
	}
	if !(Value{}).IsEmpty() {
		t.Error("zero Value should be empty")
	}
}

func TestValue_JSON(t *testing.T) {
	in := map[string]Value{
		"annualCalls": Number(100000),
		"note":        Text("from 2024 survey"),
		"typed":       Text("42"),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]Value
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out["annualCalls"].IsNumber() || out["annualCalls"].Float() != 100000 {
		t.Errorf("annualCalls lost its number form: %+v", out["annualCalls"])
	}
	if out["note"].IsNumber() || out["note"].String() != "from 2024 survey" {
		t.Errorf("note changed: %+v", out["note"])
	}
	if out["typed"].IsNumber() {
		t.Error("string input should stay a string")
	}
	for k := range in {
		if in[k] != out[k] {
			t.Errorf("%s did not round-trip: %+v vs %+v", k, in[k], out[k])
		}
	}

	var bad Value
	if err := json.Unmarshal([]byte(`{"x":1}`), &bad); err == nil {
		t.Error("expected error for object value")
	}
}

func TestKPIAssumption_Completeness(t *testing.T) {
	a := KPIAssumption{KPIName: catalog.KPIRevenuePerCall, Values: map[string]Value{
		"currentRPC":  Number(10),
		"targetRPC":   Number(12),
		"annualCalls": Number(5000),
	}}
	c := a.Completeness(catalog.PlatformCCaaS)
	if c.Required != 4 || c.Completed != 3 {
		t.Errorf("expected 3/4, got %d/%d", c.Completed, c.Required)
	}
	if a.Complete(catalog.PlatformCCaaS) {
		t.Error("RPC without conversion rate should be incomplete")
	}

	a.Values["conversionRate"] = Number(0)
	if !a.Complete(catalog.PlatformCCaaS) {
		t.Error("explicit zero should count as populated")
	}
}

func TestKPIAssumption_PlatformVariant(t *testing.T) {
	a := KPIAssumption{KPIName: catalog.KPIHandlingTime, Values: map[string]Value{
		"currentAHT":    Number(10),
		"targetAHT":     Number(6),
		"annualCalls":   Number(100000),
		"costPerMinute": Number(0.5),
	}}
	if !a.Complete(catalog.PlatformFieldServices) {
		t.Error("field services AHT should be complete with targetAHT")
	}
	if a.Complete(catalog.PlatformCCaaS) {
		t.Error("ccaas AHT needs targetAHTReduction")
	}
}

func TestStore_Sync(t *testing.T) {
	var s Store
	s.Sync([]string{"A", "B"})
	if len(s) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s))
	}
	if err := s.Set("A", "currentValue", Number(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Sync([]string{"C", "A", "A"})
	if len(s) != 2 {
		t.Fatalf("expected 2 entries after resync, got %d", len(s))
	}
	if s[0].KPIName != "C" || s[1].KPIName != "A" {
		t.Errorf("order should follow selection, got %s,%s", s[0].KPIName, s[1].KPIName)
	}
	a, ok := s.Get("A")
	if !ok || a.Float("currentValue") != 1 {
		t.Error("values for a kept KPI should survive resync")
	}
	if _, ok := s.Get("B"); ok {
		t.Error("deselected KPI should be dropped")
	}
}

func TestStore_SetClear(t *testing.T) {
	var s Store
	s.Sync([]string{"A"})

	if err := s.Set("missing", "x", Number(1)); err == nil {
		t.Error("expected error for unselected KPI")
	}
	if err := s.Set("A", "", Number(1)); err == nil {
		t.Error("expected error for empty key")
	}

	_ = s.Set("A", "x", Number(1))
	if !s.HasAnyValues() {
		t.Error("store should report values")
	}
	_ = s.Clear("A", "x")
	if s.HasAnyValues() {
		t.Error("cleared store should report no values")
	}
	_ = s.Set("A", "x", Text(""))
	if _, exists := s[0].Values["x"]; exists {
		t.Error("empty value should not be stored")
	}
}

func TestStore_ListIsDeepCopy(t *testing.T) {
	var s Store
	s.Sync([]string{"A"})
	_ = s.Set("A", "x", Number(1))

	list := s.List()
	list[0].Values["x"] = Number(99)

	got, _ := s.Get("A")
	if got.Float("x") != 1 {
		t.Error("mutating List output leaked into the store")
	}

	c := s.Clone()
	c[0].Values["x"] = Number(5)
	if s[0].Values["x"].Float() != 1 {
		t.Error("mutating Clone leaked into the store")
	}
}

func TestStore_AllComplete(t *testing.T) {
	var s Store
	if s.AllComplete(catalog.PlatformCCaaS) {
		t.Error("empty store cannot be complete")
	}

	s.Sync([]string{catalog.KPICustomerLifetime})
	for k, v := range map[string]float64{"currentCLV": 1000, "targetCLV": 1500, "customerBase": 10000} {
		_ = s.Set(catalog.KPICustomerLifetime, k, Number(v))
	}
	if s.AllComplete(catalog.PlatformCCaaS) {
		t.Error("missing churnRate should block completion")
	}
	badge := s.Badges(catalog.PlatformCCaaS)[catalog.KPICustomerLifetime]
	if badge.Completed != 3 || badge.Required != 4 {
		t.Errorf("unexpected badge %d/%d", badge.Completed, badge.Required)
	}

	_ = s.Set(catalog.KPICustomerLifetime, "churnRate", Number(20))
	if !s.AllComplete(catalog.PlatformCCaaS) {
		t.Error("store should be complete")
	}
}
