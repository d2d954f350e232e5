// aviation/procedure.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brunoga/deep"
)

type ProcedureType int

const (
	SID ProcedureType = iota
	STAR
)

func (t ProcedureType) String() string {
	return []string{"SID", "STAR"}[t]
}

// ProcedureDefinition is the raw shape of a SID or STAR in airport JSON:
// entry and exit transitions joined through a common body. For a SID the
// entries are keyed by departure runway and the exits by transition
// name; for a STAR it is the other way around.
type ProcedureDefinition struct {
	Name    string                  `json:"name,omitempty"`
	Entries map[string][]RouteEntry `json:"entries"`
	Body    []RouteEntry            `json:"body"`
	Exits   map[string][]RouteEntry `json:"exits"`
}

// Procedure is a standard departure or arrival route template,
// expandable into a waypoint sequence for a given entry/exit pair.
type Procedure struct {
	Id   string
	Type ProcedureType
	Def  ProcedureDefinition
}

func MakeProcedure(id string, typ ProcedureType, def ProcedureDefinition) (*Procedure, error) {
	if id == "" {
		return nil, fmt.Errorf("%s with empty identifier", typ)
	}
	if len(def.Entries) == 0 {
		return nil, fmt.Errorf("%s %s: no entries defined", typ, id)
	}

	// Identifiers and transition keys are stored uppercase so that
	// lookups, which fold case, find them regardless of how the airport
	// file spells them.
	id = strings.ToUpper(id)
	var err error
	if def.Entries, err = foldTransitionKeys(def.Entries); err != nil {
		return nil, fmt.Errorf("%s %s: %w", typ, id, err)
	}
	if def.Exits, err = foldTransitionKeys(def.Exits); err != nil {
		return nil, fmt.Errorf("%s %s: %w", typ, id, err)
	}
	return &Procedure{Id: id, Type: typ, Def: def}, nil
}

func foldTransitionKeys(m map[string][]RouteEntry) (map[string][]RouteEntry, error) {
	folded := make(map[string][]RouteEntry, len(m))
	for name, entries := range m {
		name = strings.ToUpper(name)
		if _, ok := folded[name]; ok {
			return nil, fmt.Errorf("%s: transition defined twice", name)
		}
		folded[name] = entries
	}
	return folded, nil
}

func (p *Procedure) IsSID() bool  { return p.Type == SID }
func (p *Procedure) IsSTAR() bool { return p.Type == STAR }

func (p *Procedure) HasEntry(name string) bool {
	_, ok := p.Def.Entries[strings.ToUpper(name)]
	return ok
}

func (p *Procedure) HasExit(name string) bool {
	_, ok := p.Def.Exits[strings.ToUpper(name)]
	return ok
}

// AllFixNames returns the sorted, de-duplicated union of every fix name
// appearing in any entry, body, or exit branch, for integrity checking
// against the fix registry. Vector waypoints carry no fix and are
// skipped.
func (p *Procedure) AllFixNames() []string {
	var names []string
	add := func(entries []RouteEntry) {
		for _, e := range entries {
			name := strings.Trim(e.Fix, "@^")
			if !strings.ContainsRune(name, '#') {
				names = append(names, strings.ToUpper(name))
			}
		}
	}
	for _, entries := range p.Def.Entries {
		add(entries)
	}
	add(p.Def.Body)
	for _, entries := range p.Def.Exits {
		add(entries)
	}

	slices.Sort(names)
	return slices.Compact(names)
}

// RouteEntriesBetween returns the route entries for the given entry/exit
// combination: the entry transition, then the body, then the exit
// transition, in order. The result is a deep copy so callers cannot
// mutate the stored definition. Procedures without exit transitions
// (e.g. a STAR that ends at the field) may be expanded with exit == "".
func (p *Procedure) RouteEntriesBetween(entry, exit string) ([]RouteEntry, error) {
	in, ok := p.Def.Entries[strings.ToUpper(entry)]
	if !ok {
		return nil, fmt.Errorf("%s %s: %s: %w", p.Type, p.Id, entry, ErrUnknownProcedureEntry)
	}

	var out []RouteEntry
	if exit != "" {
		if out, ok = p.Def.Exits[strings.ToUpper(exit)]; !ok {
			return nil, fmt.Errorf("%s %s: %s: %w", p.Type, p.Id, exit, ErrUnknownProcedureExit)
		}
	}

	entries := slices.Concat(in, p.Def.Body, out)
	return deep.Copy(entries)
}

// WaypointsBetween materializes the ordered waypoint sequence for the
// given entry/exit combination, resolving each fix against the registry.
func (p *Procedure) WaypointsBetween(entry, exit string, fixes *FixRegistry) ([]*Waypoint, error) {
	entries, err := p.RouteEntriesBetween(entry, exit)
	if err != nil {
		return nil, err
	}

	var wps []*Waypoint
	for _, e := range entries {
		wp, err := MakeWaypoint(e, fixes)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", p.Type, p.Id, err)
		}
		wps = append(wps, wp)
	}
	return wps, nil
}
