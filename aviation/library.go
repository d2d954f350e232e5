// aviation/library.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/towersim/towersim/log"
	"github.com/towersim/towersim/math"
	"github.com/towersim/towersim/util"
)

///////////////////////////////////////////////////////////////////////////
// AirportDescriptor

// AirportDescriptor is the parsed airport definition consumed by
// NavigationLibrary.Init; it is produced by LoadAirport or by an
// external loader.
type AirportDescriptor struct {
	ICAO              string                         `json:"icao"`
	Position          math.Point2LL                  `json:"position"`
	MagneticVariation float32                        `json:"magnetic_north"`
	Runways           []RunwayDescriptor             `json:"runways,omitempty"`
	Fixes             map[string]math.Point2LL       `json:"fixes"`
	Airways           map[string][]string            `json:"airways,omitempty"`
	SIDs              map[string]ProcedureDefinition `json:"sids,omitempty"`
	STARs             map[string]ProcedureDefinition `json:"stars,omitempty"`
}

type RunwayDescriptor struct {
	Id        string        `json:"id"`
	Threshold math.Point2LL `json:"threshold"`
	Heading   float32       `json:"heading"`
}

///////////////////////////////////////////////////////////////////////////
// NavigationLibrary

// NavigationLibrary owns the navigation database for one loaded airport:
// the reference position, fix registry, airways, and SID/STAR
// procedures. It is constructed explicitly and passed to whatever needs
// lookups rather than living as process-global state; its lifecycle is
// uninitialized -> Init -> queryable -> Reset -> uninitialized.
//
// All mutation happens in Init and Reset, which must not be interleaved
// with queries; the library does no locking since its contract is
// single-writer, many-reader within one cooperative simulation step.
// After Init returns the database is fully queryable and immutable until
// the next Reset.
type NavigationLibrary struct {
	reference    ReferencePosition
	fixes        *FixRegistry
	airways      map[string]*Airway
	procedures   map[string]*Procedure
	missingFixes []string
	initialized  bool
	lg           *log.Logger
}

func NewNavigationLibrary(lg *log.Logger) *NavigationLibrary {
	return &NavigationLibrary{lg: lg}
}

// Init builds the navigation database from the given airport definition.
// It is atomic in effect: on error the library remains uninitialized and
// empty. Calling Init on an initialized library is a programming error
// and panics; Reset first.
//
// Fix names referenced by airways or procedures but not defined in the
// airport's fixes are a data-quality problem, not a load failure: they
// are collected (sorted, de-duplicated), logged once, and available via
// MissingFixes.
func (n *NavigationLibrary) Init(ap *AirportDescriptor) error {
	if n.initialized {
		panic("NavigationLibrary.Init called on initialized library; call Reset first")
	}

	reference := MakeReferencePosition(ap.Position, ap.MagneticVariation)

	fixes := NewFixRegistry()
	defs := make(map[string]math.Point2LL, len(ap.Fixes)+len(ap.Runways))
	for name, loc := range ap.Fixes {
		defs[strings.ToUpper(name)] = loc
	}
	// Runway thresholds become synthetic fixes so that procedures can
	// reference them without polluting the real fix list.
	for _, rwy := range ap.Runways {
		defs["_RW"+strings.ToUpper(rwy.Id)] = rwy.Threshold
	}
	if err := fixes.AddFixes(defs, reference); err != nil {
		return err
	}

	var missing []string

	airways := make(map[string]*Airway, len(ap.Airways))
	for _, name := range util.SortedMapKeys(ap.Airways) {
		airway, m, err := MakeAirway(name, ap.Airways[name], fixes)
		if err != nil {
			return err
		}
		if _, ok := airways[airway.Name]; ok {
			return fmt.Errorf("%s: airway %s defined twice", ap.ICAO, airway.Name)
		}
		airways[airway.Name] = airway
		missing = append(missing, m...)
	}

	// SID and STAR identifiers share one namespace; a collision between
	// the two maps is as much a duplicate definition as a repeated key
	// within either one.
	if dup := util.DuplicateMapKeys(ap.SIDs, ap.STARs); len(dup) > 0 {
		return fmt.Errorf("%s: procedure identifiers defined as both SID and STAR: %s",
			ap.ICAO, strings.Join(dup, ", "))
	}

	procedures := make(map[string]*Procedure, len(ap.SIDs)+len(ap.STARs))
	addProcedures := func(defs map[string]ProcedureDefinition, typ ProcedureType) error {
		for _, id := range util.SortedMapKeys(defs) {
			proc, err := MakeProcedure(id, typ, defs[id])
			if err != nil {
				return err
			}
			// Catches collisions the raw-key scan above misses, e.g. a
			// SID "clayt7" next to a STAR "CLAYT7".
			if _, ok := procedures[proc.Id]; ok {
				return fmt.Errorf("%s: procedure %s defined twice", ap.ICAO, proc.Id)
			}
			procedures[proc.Id] = proc

			for _, fix := range proc.AllFixNames() {
				if !fixes.Has(fix) {
					missing = append(missing, fix)
				}
			}
		}
		return nil
	}
	if err := addProcedures(ap.SIDs, SID); err != nil {
		return err
	}
	if err := addProcedures(ap.STARs, STAR); err != nil {
		return err
	}

	slices.Sort(missing)
	missing = slices.Compact(missing)
	if len(missing) > 0 {
		n.lg.Warnf("%s: airways/procedures reference undefined fixes: %s",
			ap.ICAO, strings.Join(missing, " "))
	}

	n.reference = reference
	n.fixes = fixes
	n.airways = airways
	n.procedures = procedures
	n.missingFixes = missing
	n.initialized = true
	return nil
}

// Reset releases the loaded database and returns the library to its
// uninitialized state so another airport can be loaded.
func (n *NavigationLibrary) Reset() {
	if n.fixes != nil {
		n.fixes.RemoveAll()
	}
	n.reference = ReferencePosition{}
	n.fixes = nil
	n.airways = nil
	n.procedures = nil
	n.missingFixes = nil
	n.initialized = false
}

func (n *NavigationLibrary) checkInitialized() {
	if !n.initialized {
		panic("NavigationLibrary query before Init")
	}
}

func (n *NavigationLibrary) Initialized() bool {
	return n.initialized
}

func (n *NavigationLibrary) Reference() ReferencePosition {
	n.checkInitialized()
	return n.reference
}

// Fixes returns the registry shared by all waypoint, airway, and
// procedure resolution for the loaded airport.
func (n *NavigationLibrary) Fixes() *FixRegistry {
	n.checkInitialized()
	return n.fixes
}

func (n *NavigationLibrary) FindFixByName(name string) *Fix {
	n.checkInitialized()
	return n.fixes.FindByName(name)
}

// FixRelativePosition returns the named fix's offset from the airport
// reference position in kilometers north and east; ok is false if the
// fix is not defined.
func (n *NavigationLibrary) FixRelativePosition(name string) (p [2]float32, ok bool) {
	n.checkInitialized()
	if f := n.fixes.FindByName(name); f != nil {
		return f.Relative, true
	}
	return [2]float32{}, false
}

func (n *NavigationLibrary) HasFixName(name string) bool {
	n.checkInitialized()
	return n.fixes.Has(name)
}

func (n *NavigationLibrary) Airway(name string) (*Airway, bool) {
	n.checkInitialized()
	a, ok := n.airways[strings.ToUpper(name)]
	return a, ok
}

func (n *NavigationLibrary) HasAirway(name string) bool {
	_, ok := n.Airway(name)
	return ok
}

func (n *NavigationLibrary) Procedure(id string) (*Procedure, bool) {
	n.checkInitialized()
	p, ok := n.procedures[strings.ToUpper(id)]
	return p, ok
}

func (n *NavigationLibrary) HasProcedure(id string) bool {
	_, ok := n.Procedure(id)
	return ok
}

func (n *NavigationLibrary) HasSIDs() bool {
	n.checkInitialized()
	return util.MapContains(n.procedures, func(_ string, p *Procedure) bool { return p.IsSID() })
}

func (n *NavigationLibrary) HasSTARs() bool {
	n.checkInitialized()
	return util.MapContains(n.procedures, func(_ string, p *Procedure) bool { return p.IsSTAR() })
}

// MissingFixes returns the sorted, de-duplicated fix names referenced by
// an airway or procedure but absent from the fix registry, as computed
// during Init. The result is a copy; callers cannot reach the library's
// state through it.
func (n *NavigationLibrary) MissingFixes() []string {
	n.checkInitialized()
	return slices.Clone(n.missingFixes)
}

// MakeWaypoint resolves one route entry against the loaded airport.
func (n *NavigationLibrary) MakeWaypoint(entry RouteEntry) (*Waypoint, error) {
	n.checkInitialized()
	return MakeWaypoint(entry, n.fixes)
}
