// aviation/fix.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/towersim/towersim/math"
	"github.com/towersim/towersim/util"
)

///////////////////////////////////////////////////////////////////////////
// ReferencePosition

// ReferencePosition anchors an airport's navigation data: all relative
// positions and magnetic bearings are computed with respect to it.
type ReferencePosition struct {
	Location          math.Point2LL
	MagneticVariation float32
	NmPerLongitude    float32
}

func MakeReferencePosition(location math.Point2LL, magneticVariation float32) ReferencePosition {
	return ReferencePosition{
		Location:          location,
		MagneticVariation: magneticVariation,
		NmPerLongitude:    math.NMPerLatitude * math.Cos(math.Radians(location.Latitude())),
	}
}

///////////////////////////////////////////////////////////////////////////
// Fix

// Fix is a named, positioned point in the navigation database.
type Fix struct {
	Name     string
	Location math.Point2LL

	// Offset from the reference position, in kilometers north and east.
	Relative [2]float32

	ref *ReferencePosition
}

// Synthetic fixes (underscore-prefixed, e.g. RNAV offsets and runway
// waypoints) exist for internal bookkeeping and are excluded from
// RealFixes.
func (f *Fix) IsSynthetic() bool {
	return strings.HasPrefix(f.Name, "_")
}

///////////////////////////////////////////////////////////////////////////
// FixRegistry

// FixRegistry is the keyed collection of an airport's fixes. It is
// populated once per airport load via AddFixes and must be cleared with
// RemoveAll before it can be populated again. Lookups are case
// insensitive and never fail; absence is reported as nil.
type FixRegistry struct {
	fixes map[string]*Fix
	ref   ReferencePosition

	// Similar() walks every fix name; cache recent queries since error
	// reporting tends to probe the same unknown name repeatedly.
	similar *expirable.LRU[string, []string]
}

func NewFixRegistry() *FixRegistry {
	return &FixRegistry{
		similar: expirable.NewLRU[string, []string](64, nil, 15*time.Minute),
	}
}

// AddFixes populates the registry from fix name -> position definitions,
// computing each fix's offset from the given reference position.
func (r *FixRegistry) AddFixes(defs map[string]math.Point2LL, ref ReferencePosition) error {
	if len(r.fixes) > 0 {
		return ErrRegistryPopulated
	}

	r.ref = ref
	r.fixes = make(map[string]*Fix, len(defs))
	for name, loc := range defs {
		name = strings.ToUpper(name)
		nm := math.Sub2f(math.LL2NM(loc, ref.NmPerLongitude), math.LL2NM(ref.Location, ref.NmPerLongitude))
		km := math.Scale2f(nm, math.NauticalMilesToKilometers)
		r.fixes[name] = &Fix{
			Name:     name,
			Location: loc,
			// km coordinates are (east, north); Relative is (north, east).
			Relative: [2]float32{km[1], km[0]},
			ref:      &r.ref,
		}
	}
	return nil
}

// FindByName returns the named fix, or nil if it is not defined; it is
// safe to probe for absent fixes.
func (r *FixRegistry) FindByName(name string) *Fix {
	if r.fixes == nil {
		return nil
	}
	return r.fixes[strings.ToUpper(name)]
}

func (r *FixRegistry) Has(name string) bool {
	return r.FindByName(name) != nil
}

// RemoveAll clears the registry so another airport can be loaded.
func (r *FixRegistry) RemoveAll() {
	r.fixes = nil
	r.ref = ReferencePosition{}
	r.similar.Purge()
}

// RealFixes returns the physically meaningful fixes, sorted by name,
// excluding synthetic bookkeeping fixes.
func (r *FixRegistry) RealFixes() []*Fix {
	var fixes []*Fix
	for _, name := range util.SortedMapKeys(r.fixes) {
		if f := r.fixes[name]; !f.IsSynthetic() {
			fixes = append(fixes, f)
		}
	}
	return fixes
}

func (r *FixRegistry) Reference() ReferencePosition {
	return r.ref
}

// Similar returns defined fix names that are similarly spelled to the
// given (presumably unknown) name, for use in error messages.
func (r *FixRegistry) Similar(name string) []string {
	name = strings.ToUpper(name)
	if s, ok := r.similar.Get(name); ok {
		return s
	}

	d1, d2 := util.SelectInTwoEdits(name, maps.Keys(r.fixes), nil, nil)
	s := util.Select(len(d1) > 0, d1, d2)
	slices.Sort(s)
	r.similar.Add(name, s)
	return s
}
