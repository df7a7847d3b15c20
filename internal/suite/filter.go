package suite

import (
	"path"
	"strings"

	"github.com/fjglira/storeflow/internal/domain"
)

// Filter selects scenarios by kind and by ID or name pattern. The zero value
// selects everything.
type Filter struct {
	Kinds []string
	// Pattern is a path.Match glob on the ID when it holds a glob
	// metacharacter, otherwise a case-insensitive substring of ID or name.
	Pattern string
}

// Match reports whether sc passes the filter.
func (f Filter) Match(sc domain.Scenario) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if k == sc.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Pattern == "" {
		return true
	}
	if strings.ContainsAny(f.Pattern, "*?[") {
		ok, err := path.Match(f.Pattern, sc.ID)
		return err == nil && ok
	}
	needle := strings.ToLower(f.Pattern)
	return strings.Contains(strings.ToLower(sc.ID), needle) ||
		strings.Contains(strings.ToLower(sc.Name), needle)
}

// Apply returns the matching scenarios in their original order.
func (f Filter) Apply(scenarios []domain.Scenario) []domain.Scenario {
	var out []domain.Scenario
	for _, sc := range scenarios {
		if f.Match(sc) {
			out = append(out, sc)
		}
	}
	return out
}
