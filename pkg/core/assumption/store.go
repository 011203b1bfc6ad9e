package assumption

import (
	"fmt"

	"valuecase/pkg/core/catalog"
)

// Store is the ordered set of KPI assumptions for a project, one entry per
// selected KPI in selection order.
type Store []KPIAssumption

func (s Store) index(kpiName string) int {
	for i := range s {
		if s[i].KPIName == kpiName {
			return i
		}
	}
	return -1
}

// Sync reconciles the store with the KPI selection: new KPIs get an empty
// entry, deselected KPIs are dropped with their values, and order follows
// the selection. Existing values are kept.
func (s *Store) Sync(selected []string) {
	next := make(Store, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, name := range selected {
		if seen[name] {
			continue
		}
		seen[name] = true
		if i := s.index(name); i >= 0 {
			next = append(next, (*s)[i])
			continue
		}
		next = append(next, KPIAssumption{KPIName: name, Values: map[string]Value{}})
	}
	*s = next
}

// Set writes one field. An empty value removes the key.
func (s *Store) Set(kpiName, key string, v Value) error {
	i := s.index(kpiName)
	if i < 0 {
		return fmt.Errorf("kpi '%s' is not selected", kpiName)
	}
	if key == "" {
		return fmt.Errorf("field key cannot be empty")
	}
	a := &(*s)[i]
	if a.Values == nil {
		a.Values = map[string]Value{}
	}
	if v.IsEmpty() {
		delete(a.Values, key)
		return nil
	}
	a.Values[key] = v
	return nil
}

// Clear removes one field.
func (s *Store) Clear(kpiName, key string) error {
	return s.Set(kpiName, key, Value{})
}

// Get returns a copy of the assumption for a KPI.
func (s Store) Get(kpiName string) (KPIAssumption, bool) {
	i := s.index(kpiName)
	if i < 0 {
		return KPIAssumption{}, false
	}
	return s[i].Clone(), true
}

// List returns a deep copy of every entry.
func (s Store) List() []KPIAssumption {
	out := make([]KPIAssumption, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

// Clone deep-copies the store.
func (s Store) Clone() Store {
	if s == nil {
		return nil
	}
	return Store(s.List())
}

// Badges returns the completeness count of every entry keyed by KPI name.
func (s Store) Badges(platform catalog.Platform) map[string]Completeness {
	out := make(map[string]Completeness, len(s))
	for _, a := range s {
		out[a.KPIName] = a.Completeness(platform)
	}
	return out
}

// AllComplete is the assumptions forward gate: at least one KPI, and every
// KPI complete.
func (s Store) AllComplete(platform catalog.Platform) bool {
	if len(s) == 0 {
		return false
	}
	for _, a := range s {
		if !a.Complete(platform) {
			return false
		}
	}
	return true
}

// HasAnyValues reports whether at least one KPI has a populated field.
func (s Store) HasAnyValues() bool {
	for _, a := range s {
		if a.HasValues() {
			return true
		}
	}
	return false
}
