// aviation/airway.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/towersim/towersim/util"
)

// Airway is a named, ordered chain of fixes usable as a route segment.
type Airway struct {
	Name     string
	FixNames []string
}

// MakeAirway validates an airway's structure and resolves its fix names
// against the registry. Structural violations (too few fixes, repeated
// adjacent fixes, empty names) are errors; member names that are absent
// from the registry are not--they are returned in missing so the caller
// can fold them into the airport's data-quality report.
func MakeAirway(name string, fixNames []string, fixes *FixRegistry) (*Airway, []string, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("airway with empty name")
	}
	if len(fixNames) < 2 {
		return nil, nil, fmt.Errorf("%s: airways must have at least two fixes", name)
	}

	a := &Airway{Name: strings.ToUpper(name)}
	var missing []string
	for i, fix := range fixNames {
		fix = strings.ToUpper(fix)
		if fix == "" {
			return nil, nil, fmt.Errorf("%s: empty fix name in airway", name)
		}
		if i > 0 && fix == a.FixNames[i-1] {
			return nil, nil, fmt.Errorf("%s: fix %s repeated consecutively in airway", name, fix)
		}
		if !fixes.Has(fix) {
			missing = append(missing, fix)
		}
		a.FixNames = append(a.FixNames, fix)
	}

	return a, missing, nil
}

func (a *Airway) HasFix(name string) bool {
	return slices.Contains(a.FixNames, strings.ToUpper(name))
}

// FixNamesBetween returns the inclusive sub-sequence of the airway's
// fixes from entry to exit. The traversal direction follows the caller's
// entry/exit order: if exit precedes entry in the stored sequence, the
// result is reversed so it always reads entry first. Both endpoints must
// be members.
func (a *Airway) FixNamesBetween(entry, exit string) ([]string, error) {
	start := slices.Index(a.FixNames, strings.ToUpper(entry))
	end := slices.Index(a.FixNames, strings.ToUpper(exit))
	if start == -1 {
		return nil, fmt.Errorf("%s: %s: %w", a.Name, entry, ErrFixNotOnAirway)
	}
	if end == -1 {
		return nil, fmt.Errorf("%s: %s: %w", a.Name, exit, ErrFixNotOnAirway)
	}

	var names []string
	delta := util.Select(start <= end, 1, -1)
	for i := start; i != end+delta; i += delta {
		names = append(names, a.FixNames[i])
	}
	return names, nil
}
