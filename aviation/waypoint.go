// aviation/waypoint.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/towersim/towersim/math"
)

///////////////////////////////////////////////////////////////////////////
// RouteEntry

// RouteEntry is one token of a route definition, as it appears in airport
// JSON files: either a bare fix name, possibly carrying marker characters
// ("CLAYT", "@CLAYT", "^MOLDY", "#270"), or a fix name paired with a
// restriction string ("A50-|S210-"). The compact single-string form
// "@CLAYT|A50-|S210-" is split at the first '|'.
type RouteEntry struct {
	Fix          string
	Restrictions string
}

func MakeRouteEntry(fix string) RouteEntry {
	if idx := strings.IndexByte(fix, '|'); idx != -1 {
		return RouteEntry{Fix: fix[:idx], Restrictions: fix[idx+1:]}
	}
	return RouteEntry{Fix: fix}
}

func (r *RouteEntry) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = MakeRouteEntry(s)
		return nil
	}

	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("route entry arrays must have two elements [fix, restrictions], got %d", len(pair))
	}
	r.Fix, r.Restrictions = pair[0], pair[1]
	return nil
}

func (r RouteEntry) MarshalJSON() ([]byte, error) {
	if r.Restrictions == "" {
		return json.Marshal(r.Fix)
	}
	return json.Marshal([2]string{r.Fix, r.Restrictions})
}

///////////////////////////////////////////////////////////////////////////
// Restrictions

// UnsetRestriction is the sentinel for altitude/speed bounds that have
// not been assigned.
const UnsetRestriction = -1

type RestrictionKind int

const (
	RestrictAltitude RestrictionKind = iota
	RestrictSpeed
)

func (k RestrictionKind) String() string {
	return []string{"altitude", "speed"}[k]
}

type RestrictionBound int

const (
	BoundBoth RestrictionBound = iota // hard restriction: minimum == maximum
	BoundMinimum
	BoundMaximum
)

func (b RestrictionBound) String() string {
	return []string{"at", "at or above", "at or below"}[b]
}

// Restriction is one parsed altitude or speed restriction token. Values
// are in feet or knots respectively.
type Restriction struct {
	Kind  RestrictionKind
	Bound RestrictionBound
	Value int
}

// ParseRestrictions parses a '|'-delimited restriction string, e.g.
// "A50+|S210". Each token starts with 'A' (altitude, in hundreds of
// feet) or 'S' (speed, in knots); a '+' selects a minimum-only bound, a
// '-' a maximum-only bound, and no sign a hard restriction. Any other
// leading character is an error.
func ParseRestrictions(s string) ([]Restriction, error) {
	var restrictions []Restriction
	for _, token := range strings.Split(s, "|") {
		if len(token) < 2 {
			return nil, fmt.Errorf("%q: restriction too short", token)
		}

		var r Restriction
		switch token[0] {
		case 'A':
			r.Kind = RestrictAltitude
		case 'S':
			r.Kind = RestrictSpeed
		default:
			return nil, fmt.Errorf("%q: restriction must begin with \"A\" or \"S\"", token)
		}

		value := token[1:]
		if idx := strings.IndexByte(value, '+'); idx != -1 {
			r.Bound = BoundMinimum
			value = value[:idx] + value[idx+1:]
		} else if idx := strings.IndexByte(value, '-'); idx != -1 {
			r.Bound = BoundMaximum
			value = value[:idx] + value[idx+1:]
		}

		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%q: error parsing restriction value: %v", token, err)
		}
		if r.Kind == RestrictAltitude {
			v *= 100 // given in hundreds of feet, flight-level style
		}
		r.Value = v

		restrictions = append(restrictions, r)
	}
	return restrictions, nil
}

///////////////////////////////////////////////////////////////////////////
// Hold parameters

// UnsetHoldHeading and UnsetHoldTimer are the sentinels for hold
// parameters that have not been assigned.
const UnsetHoldHeading float32 = -1
const UnsetHoldTimer float32 = -1

// TurnDirection specifies the direction of turns in a holding pattern.
// The zero value is TurnRight, the standard-pattern default.
type TurnDirection int

const (
	TurnRight TurnDirection = iota
	TurnLeft
)

func (t TurnDirection) String() string {
	return []string{"right", "left"}[int(t)]
}

// HoldParameters describes the holding pattern to be flown at a hold
// waypoint.
type HoldParameters struct {
	TurnDirection  TurnDirection
	InboundHeading float32 // radians; UnsetHoldHeading if not specified
	LegLengthNM    float32 // 0 if the legs are time-based
	LegMinutes     float32 // 0 if the legs are distance-based
	Timer          float32 // expiry, in simulation seconds; UnsetHoldTimer if inactive
}

// MakeHoldParameters returns the default holding pattern: right turns,
// one-minute legs, no inbound heading, timer inactive.
func MakeHoldParameters() HoldParameters {
	return HoldParameters{
		TurnDirection:  TurnRight,
		InboundHeading: UnsetHoldHeading,
		LegMinutes:     1,
		Timer:          UnsetHoldTimer,
	}
}

func (h HoldParameters) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("turn_direction", h.TurnDirection.String())}
	if h.InboundHeading != UnsetHoldHeading {
		attrs = append(attrs, slog.Float64("inbound_heading", float64(h.InboundHeading)))
	}
	if h.LegLengthNM != 0 {
		attrs = append(attrs, slog.Float64("leg_length_nm", float64(h.LegLengthNM)))
	} else if h.LegMinutes != 0 {
		attrs = append(attrs, slog.Float64("leg_minutes", float64(h.LegMinutes)))
	}
	return slog.GroupValue(attrs...)
}

// HoldPatch is a partial update to a waypoint's hold parameters; nil
// fields are left unchanged.
type HoldPatch struct {
	TurnDirection  *TurnDirection
	InboundHeading *float32
	LegLengthNM    *float32
	LegMinutes     *float32
	Timer          *float32
}

///////////////////////////////////////////////////////////////////////////
// Waypoint

// WaypointClass classifies a waypoint from the marker character carried
// by its route token. Markers are checked in declaration order and only
// the first match applies, even if a token carries several.
type WaypointClass int

const (
	WaypointPlain WaypointClass = iota
	WaypointFlyOver
	WaypointHold
	WaypointVector
)

func (c WaypointClass) String() string {
	return []string{"plain", "fly-over", "hold", "vector"}[c]
}

// Waypoint is one entry of a flight plan: a named fix with optional
// altitude/speed restrictions and hold parameters, or a positionless
// vector instruction. Waypoints are built once via MakeWaypoint and then
// only read, other than hold arming/updates.
type Waypoint struct {
	// Name has the '@' and '^' markers stripped; for vector waypoints it
	// retains the leading '#' followed by the heading digits.
	Name  string
	Class WaypointClass

	// In feet and knots; UnsetRestriction where no bound applies.
	AltitudeMinimum int
	AltitudeMaximum int
	SpeedMinimum    int
	SpeedMaximum    int

	// Non-nil iff the waypoint is (or has been armed as) a hold.
	Hold *HoldParameters

	// Resolved position; nil iff the waypoint is a vector.
	Fix *Fix

	vectorHeading int // degrees, valid iff Class == WaypointVector
}

// MakeWaypoint builds a waypoint from one route entry, resolving its fix
// name against the given registry. The fix name must resolve for all
// non-vector waypoints; an unknown name is an error, never a silently
// positionless waypoint.
func MakeWaypoint(entry RouteEntry, fixes *FixRegistry) (*Waypoint, error) {
	token := entry.Fix
	if token == "" {
		return nil, fmt.Errorf("empty fix name in route entry")
	}

	wp := &Waypoint{
		AltitudeMinimum: UnsetRestriction,
		AltitudeMaximum: UnsetRestriction,
		SpeedMinimum:    UnsetRestriction,
		SpeedMaximum:    UnsetRestriction,
	}

	// Only the first matching marker classifies the waypoint.
	if strings.ContainsRune(token, '^') {
		wp.Class = WaypointFlyOver
	} else if strings.ContainsRune(token, '@') {
		wp.Class = WaypointHold
	} else if strings.ContainsRune(token, '#') {
		wp.Class = WaypointVector
	}

	// '@' and '^' are dropped from the stored name; '#' is kept and
	// stripped only when the vector heading is decoded.
	wp.Name = strings.Map(func(r rune) rune {
		if r == '@' || r == '^' {
			return -1
		}
		return r
	}, token)

	if wp.Class == WaypointVector {
		hdg, err := strconv.Atoi(strings.TrimPrefix(wp.Name, "#"))
		if err != nil {
			return nil, fmt.Errorf("%q: error parsing vector heading: %v", token, err)
		}
		if hdg < 0 || hdg > 360 {
			return nil, fmt.Errorf("%q: vector heading must be between 0-360", token)
		}
		wp.vectorHeading = hdg
	} else {
		if wp.Fix = fixes.FindByName(wp.Name); wp.Fix == nil {
			return nil, fmt.Errorf("%s: %w", wp.Name, ErrUnknownFix)
		}
	}

	if wp.Class == WaypointHold {
		hold := MakeHoldParameters()
		wp.Hold = &hold
	}

	if entry.Restrictions != "" {
		restrictions, err := ParseRestrictions(entry.Restrictions)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", token, err)
		}
		for _, r := range restrictions {
			wp.applyRestriction(r)
		}
	}

	return wp, nil
}

func (wp *Waypoint) applyRestriction(r Restriction) {
	lo, hi := &wp.AltitudeMinimum, &wp.AltitudeMaximum
	if r.Kind == RestrictSpeed {
		lo, hi = &wp.SpeedMinimum, &wp.SpeedMaximum
	}
	switch r.Bound {
	case BoundBoth:
		*lo, *hi = r.Value, r.Value
	case BoundMinimum:
		*lo = r.Value
	case BoundMaximum:
		*hi = r.Value
	}
}

func (wp *Waypoint) IsFlyOver() bool { return wp.Class == WaypointFlyOver }
func (wp *Waypoint) IsHold() bool    { return wp.Class == WaypointHold }
func (wp *Waypoint) IsVector() bool  { return wp.Class == WaypointVector }

func (wp *Waypoint) HasAltitudeRestriction() bool {
	return wp.AltitudeMinimum != UnsetRestriction || wp.AltitudeMaximum != UnsetRestriction
}

func (wp *Waypoint) HasSpeedRestriction() bool {
	return wp.SpeedMinimum != UnsetRestriction || wp.SpeedMaximum != UnsetRestriction
}

// HasMinimumAltitudeAbove reports whether a minimum altitude restriction
// is set and lies strictly above the given altitude.
func (wp *Waypoint) HasMinimumAltitudeAbove(alt int) bool {
	return wp.AltitudeMinimum != UnsetRestriction && wp.AltitudeMinimum > alt
}

// HasMaximumAltitudeBelow reports whether a maximum altitude restriction
// is set and lies strictly below the given altitude.
func (wp *Waypoint) HasMaximumAltitudeBelow(alt int) bool {
	return wp.AltitudeMaximum != UnsetRestriction && wp.AltitudeMaximum < alt
}

// VectorHeading returns the heading encoded by a vector waypoint, in
// radians; ok is false for all other waypoint classes.
func (wp *Waypoint) VectorHeading() (hdg float32, ok bool) {
	if wp.Class != WaypointVector {
		return 0, false
	}
	return math.Radians(float32(wp.vectorHeading)), true
}

// DisplayName returns the name to show a controller: RNAV waypoints
// (underscore-prefixed, per the offset-fix naming convention) all
// display as "RNAV".
func (wp *Waypoint) DisplayName() string {
	if strings.HasPrefix(wp.Name, "_") {
		return "RNAV"
	}
	return wp.Name
}

// BearingTo returns the magnetic bearing from wp to other in radians.
// Neither waypoint may be a vector waypoint; that is a contract
// violation, not a soft zero. Controller logic must use this form; see
// BearingToLenient for the legacy display-path behavior.
func (wp *Waypoint) BearingTo(other *Waypoint) (float32, error) {
	if wp.Fix == nil || other == nil || other.Fix == nil {
		return 0, ErrVectorWaypoint
	}
	ref := wp.Fix.ref
	hdg := math.Heading2LL(wp.Fix.Location, other.Fix.Location, ref.NmPerLongitude, ref.MagneticVariation)
	return math.Radians(hdg), nil
}

// DistanceTo returns the distance from wp to other in nautical miles,
// with the same vector-waypoint contract as BearingTo.
func (wp *Waypoint) DistanceTo(other *Waypoint) (float32, error) {
	if wp.Fix == nil || other == nil || other.Fix == nil {
		return 0, ErrVectorWaypoint
	}
	return math.NMDistance2LL(wp.Fix.Location, other.Fix.Location), nil
}

// BearingToLenient and DistanceToLenient return zero rather than failing
// when a vector waypoint is involved. They exist only for legacy display
// call sites that tolerate positionless waypoints; new code should use
// the strict variants.
func (wp *Waypoint) BearingToLenient(other *Waypoint) float32 {
	b, err := wp.BearingTo(other)
	if err != nil {
		return 0
	}
	return b
}

func (wp *Waypoint) DistanceToLenient(other *Waypoint) float32 {
	d, err := wp.DistanceTo(other)
	if err != nil {
		return 0
	}
	return d
}

// ArmHold sets the waypoint's hold parameters wholesale and marks it as
// a hold waypoint in one atomic update. The waypoint need not have been
// created with the '@' marker.
func (wp *Waypoint) ArmHold(hold HoldParameters) {
	h := hold
	wp.Hold = &h
	wp.Class = WaypointHold
}

// UpdateHold merges the non-nil fields of the patch into the waypoint's
// hold parameters. The waypoint must already be a hold waypoint; use
// ArmHold to make it one.
func (wp *Waypoint) UpdateHold(patch HoldPatch) error {
	if wp.Hold == nil {
		return fmt.Errorf("%s: %w", wp.Name, ErrNotHoldWaypoint)
	}
	if patch.TurnDirection != nil {
		wp.Hold.TurnDirection = *patch.TurnDirection
	}
	if patch.InboundHeading != nil {
		wp.Hold.InboundHeading = *patch.InboundHeading
	}
	if patch.LegLengthNM != nil {
		wp.Hold.LegLengthNM = *patch.LegLengthNM
	}
	if patch.LegMinutes != nil {
		wp.Hold.LegMinutes = *patch.LegMinutes
	}
	if patch.Timer != nil {
		wp.Hold.Timer = *patch.Timer
	}
	return nil
}

// SetHoldTimer sets the hold's expiry in simulation seconds.
func (wp *Waypoint) SetHoldTimer(expiry float32) error {
	if wp.Hold == nil {
		return fmt.Errorf("%s: %w", wp.Name, ErrNotHoldWaypoint)
	}
	wp.Hold.Timer = expiry
	return nil
}

func (wp *Waypoint) ClearHoldTimer() error {
	if wp.Hold == nil {
		return fmt.Errorf("%s: %w", wp.Name, ErrNotHoldWaypoint)
	}
	wp.Hold.Timer = UnsetHoldTimer
	return nil
}

func (wp *Waypoint) String() string {
	s := wp.Name
	if wp.Class != WaypointPlain {
		s += " (" + wp.Class.String() + ")"
	}
	if wp.AltitudeMinimum != UnsetRestriction || wp.AltitudeMaximum != UnsetRestriction {
		s += fmt.Sprintf(" alt [%d,%d]", wp.AltitudeMinimum, wp.AltitudeMaximum)
	}
	if wp.SpeedMinimum != UnsetRestriction || wp.SpeedMaximum != UnsetRestriction {
		s += fmt.Sprintf(" speed [%d,%d]", wp.SpeedMinimum, wp.SpeedMaximum)
	}
	return s
}

func (wp *Waypoint) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("fix", wp.Name)}
	if wp.Class != WaypointPlain {
		attrs = append(attrs, slog.String("class", wp.Class.String()))
	}
	if wp.AltitudeMinimum != UnsetRestriction {
		attrs = append(attrs, slog.Int("altitude_minimum", wp.AltitudeMinimum))
	}
	if wp.AltitudeMaximum != UnsetRestriction {
		attrs = append(attrs, slog.Int("altitude_maximum", wp.AltitudeMaximum))
	}
	if wp.SpeedMinimum != UnsetRestriction {
		attrs = append(attrs, slog.Int("speed_minimum", wp.SpeedMinimum))
	}
	if wp.SpeedMaximum != UnsetRestriction {
		attrs = append(attrs, slog.Int("speed_maximum", wp.SpeedMaximum))
	}
	if wp.Hold != nil {
		attrs = append(attrs, slog.Any("hold", wp.Hold))
	}
	if wp.Class == WaypointVector {
		attrs = append(attrs, slog.Int("vector_heading", wp.vectorHeading))
	}
	return slog.GroupValue(attrs...)
}
