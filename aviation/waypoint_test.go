// aviation/waypoint_test.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/towersim/towersim/math"
)

func makeTestRegistry(t *testing.T) *FixRegistry {
	t.Helper()

	ref := MakeReferencePosition(math.Point2LL{-75, 40}, 0)
	r := NewFixRegistry()
	err := r.AddFixes(map[string]math.Point2LL{
		"CLAYT":  {-75, 40},
		"MOLDY":  {-75, 41},
		"EASTY":  {-74, 40},
		"_RW22L": {-75.1, 40.1},
	}, ref)
	if err != nil {
		t.Fatalf("AddFixes: %v", err)
	}
	return r
}

func TestMakeRouteEntry(t *testing.T) {
	for _, c := range []struct {
		token string
		want  RouteEntry
	}{
		{"CLAYT", RouteEntry{Fix: "CLAYT"}},
		{"@CLAYT|A50-|S210-", RouteEntry{Fix: "@CLAYT", Restrictions: "A50-|S210-"}},
		{"MOLDY|S250", RouteEntry{Fix: "MOLDY", Restrictions: "S250"}},
	} {
		if got := MakeRouteEntry(c.token); got != c.want {
			t.Errorf("MakeRouteEntry(%q) = %+v, expected %+v", c.token, got, c.want)
		}
	}
}

func TestRouteEntryJSON(t *testing.T) {
	for _, c := range []struct {
		json string
		want RouteEntry
	}{
		{`"CLAYT"`, RouteEntry{Fix: "CLAYT"}},
		{`"^MOLDY|A80+"`, RouteEntry{Fix: "^MOLDY", Restrictions: "A80+"}},
		{`["CLAYT", "A50-|S210-"]`, RouteEntry{Fix: "CLAYT", Restrictions: "A50-|S210-"}},
	} {
		var got RouteEntry
		if err := json.Unmarshal([]byte(c.json), &got); err != nil {
			t.Errorf("%s: unexpected error %v", c.json, err)
		} else if got != c.want {
			t.Errorf("%s: got %+v, expected %+v", c.json, got, c.want)
		}
	}

	for _, bad := range []string{`["CLAYT"]`, `["CLAYT", "A50", "S210"]`, `17`} {
		var e RouteEntry
		if err := json.Unmarshal([]byte(bad), &e); err == nil {
			t.Errorf("%s: expected unmarshal error", bad)
		}
	}
}

func TestParseRestrictions(t *testing.T) {
	for _, c := range []struct {
		s    string
		want []Restriction
	}{
		{"A100", []Restriction{{RestrictAltitude, BoundBoth, 10000}}},
		{"A80+", []Restriction{{RestrictAltitude, BoundMinimum, 8000}}},
		{"A50-", []Restriction{{RestrictAltitude, BoundMaximum, 5000}}},
		{"S210", []Restriction{{RestrictSpeed, BoundBoth, 210}}},
		{"S250-", []Restriction{{RestrictSpeed, BoundMaximum, 250}}},
		{"A50-|S210-", []Restriction{
			{RestrictAltitude, BoundMaximum, 5000},
			{RestrictSpeed, BoundMaximum, 210}}},
	} {
		got, err := ParseRestrictions(c.s)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.s, err)
		} else if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%q: got %+v, expected %+v", c.s, got, c.want)
		}
	}

	for _, bad := range []string{"X100", "A", "S", "A5a", "", "A100|X200"} {
		if _, err := ParseRestrictions(bad); err == nil {
			t.Errorf("%q: expected parse error", bad)
		}
	}
}

func TestWaypointClassification(t *testing.T) {
	fixes := makeTestRegistry(t)

	for _, c := range []struct {
		token string
		class WaypointClass
		name  string
	}{
		{"CLAYT", WaypointPlain, "CLAYT"},
		{"@CLAYT", WaypointHold, "CLAYT"},
		{"^MOLDY", WaypointFlyOver, "MOLDY"},
		{"#270", WaypointVector, "#270"},
		// Only the first matching marker applies; fly-over outranks hold.
		{"^@CLAYT", WaypointFlyOver, "CLAYT"},
		{"@^CLAYT", WaypointFlyOver, "CLAYT"},
	} {
		wp, err := MakeWaypoint(MakeRouteEntry(c.token), fixes)
		if err != nil {
			t.Errorf("%q: unexpected error %v", c.token, err)
			continue
		}
		if wp.Class != c.class {
			t.Errorf("%q: class %s, expected %s", c.token, wp.Class, c.class)
		}
		if wp.Name != c.name {
			t.Errorf("%q: name %q, expected %q", c.token, wp.Name, c.name)
		}
	}
}

func TestWaypointRestrictions(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("CLAYT|A50-|S210-"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if wp.AltitudeMinimum != UnsetRestriction {
		t.Errorf("altitude minimum %d, expected unset", wp.AltitudeMinimum)
	}
	if wp.AltitudeMaximum != 5000 {
		t.Errorf("altitude maximum %d, expected 5000", wp.AltitudeMaximum)
	}
	if wp.SpeedMinimum != UnsetRestriction {
		t.Errorf("speed minimum %d, expected unset", wp.SpeedMinimum)
	}
	if wp.SpeedMaximum != 210 {
		t.Errorf("speed maximum %d, expected 210", wp.SpeedMaximum)
	}
	if !wp.HasAltitudeRestriction() || !wp.HasSpeedRestriction() {
		t.Errorf("expected both altitude and speed restrictions to be reported")
	}

	wp, err = MakeWaypoint(MakeRouteEntry("MOLDY|A100"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if wp.AltitudeMinimum != 10000 || wp.AltitudeMaximum != 10000 {
		t.Errorf("hard restriction gave [%d,%d], expected [10000,10000]",
			wp.AltitudeMinimum, wp.AltitudeMaximum)
	}

	if _, err := MakeWaypoint(MakeRouteEntry("CLAYT|X100"), fixes); err == nil {
		t.Errorf("expected error for invalid restriction prefix")
	}
}

func TestWaypointAltitudeChecks(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("CLAYT|A80+"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !wp.HasMinimumAltitudeAbove(7000) {
		t.Errorf("expected minimum 8000 to be above 7000")
	}
	if wp.HasMinimumAltitudeAbove(8000) {
		t.Errorf("minimum 8000 is not strictly above 8000")
	}
	if wp.HasMaximumAltitudeBelow(20000) {
		t.Errorf("no maximum is set; nothing should be below")
	}

	wp, err = MakeWaypoint(MakeRouteEntry("CLAYT|A50-"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !wp.HasMaximumAltitudeBelow(6000) {
		t.Errorf("expected maximum 5000 to be below 6000")
	}
	if wp.HasMaximumAltitudeBelow(5000) {
		t.Errorf("maximum 5000 is not strictly below 5000")
	}
}

func TestVectorWaypoint(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("#270"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !wp.IsVector() {
		t.Errorf("expected vector waypoint")
	}
	if wp.Fix != nil {
		t.Errorf("vector waypoint should have no fix")
	}

	hdg, ok := wp.VectorHeading()
	if !ok {
		t.Fatalf("VectorHeading not ok for vector waypoint")
	}
	if want := math.Radians(270); math.Abs(hdg-want) > 1e-4 {
		t.Errorf("vector heading %f, expected %f", hdg, want)
	}

	clayt, err := MakeWaypoint(MakeRouteEntry("CLAYT"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := wp.BearingTo(clayt); !errors.Is(err, ErrVectorWaypoint) {
		t.Errorf("BearingTo from vector: got %v, expected ErrVectorWaypoint", err)
	}
	if _, err := clayt.BearingTo(wp); !errors.Is(err, ErrVectorWaypoint) {
		t.Errorf("BearingTo to vector: got %v, expected ErrVectorWaypoint", err)
	}
	if _, err := clayt.DistanceTo(wp); !errors.Is(err, ErrVectorWaypoint) {
		t.Errorf("DistanceTo to vector: got %v, expected ErrVectorWaypoint", err)
	}
	if b := clayt.BearingToLenient(wp); b != 0 {
		t.Errorf("lenient bearing to vector %f, expected 0", b)
	}
	if d := clayt.DistanceToLenient(wp); d != 0 {
		t.Errorf("lenient distance to vector %f, expected 0", d)
	}

	// Plain fixes carry restrictions; so can vectors.
	wp, err = MakeWaypoint(MakeRouteEntry("#090|A50+"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if wp.AltitudeMinimum != 5000 {
		t.Errorf("vector altitude minimum %d, expected 5000", wp.AltitudeMinimum)
	}

	for _, bad := range []string{"#", "#27a", "#361", "#-10"} {
		if _, err := MakeWaypoint(MakeRouteEntry(bad), fixes); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestWaypointBearingDistance(t *testing.T) {
	fixes := makeTestRegistry(t)

	mk := func(name string) *Waypoint {
		wp, err := MakeWaypoint(MakeRouteEntry(name), fixes)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return wp
	}
	clayt, moldy, easty := mk("CLAYT"), mk("MOLDY"), mk("EASTY")

	b, err := clayt.BearingTo(moldy)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if math.Abs(b) > 1e-3 {
		t.Errorf("bearing due north %f radians, expected 0", b)
	}

	b, err = clayt.BearingTo(easty)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if want := math.Radians(90); math.Abs(b-want) > 1e-3 {
		t.Errorf("bearing due east %f radians, expected %f", b, want)
	}

	d, err := clayt.DistanceTo(moldy)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if d < 59.5 || d > 60.5 {
		t.Errorf("one degree of latitude is %f nm, expected about 60", d)
	}
}

func TestWaypointHold(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("@CLAYT"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !wp.IsHold() || wp.Hold == nil {
		t.Fatalf("expected hold waypoint with parameters")
	}
	if wp.Hold.TurnDirection != TurnRight {
		t.Errorf("default turn direction %s, expected right", wp.Hold.TurnDirection)
	}
	if wp.Hold.LegMinutes != 1 || wp.Hold.LegLengthNM != 0 {
		t.Errorf("default legs %f min / %f nm, expected 1 / 0", wp.Hold.LegMinutes, wp.Hold.LegLengthNM)
	}
	if wp.Hold.InboundHeading != UnsetHoldHeading {
		t.Errorf("default inbound heading %f, expected unset", wp.Hold.InboundHeading)
	}
	if wp.Hold.Timer != UnsetHoldTimer {
		t.Errorf("default timer %f, expected unset", wp.Hold.Timer)
	}

	left, legs := TurnLeft, float32(5)
	if err := wp.UpdateHold(HoldPatch{TurnDirection: &left, LegLengthNM: &legs}); err != nil {
		t.Fatalf("UpdateHold: %v", err)
	}
	if wp.Hold.TurnDirection != TurnLeft || wp.Hold.LegLengthNM != 5 {
		t.Errorf("patch not applied: %+v", wp.Hold)
	}
	if wp.Hold.LegMinutes != 1 {
		t.Errorf("patch clobbered unpatched field: leg minutes %f", wp.Hold.LegMinutes)
	}

	if err := wp.SetHoldTimer(300); err != nil {
		t.Fatalf("SetHoldTimer: %v", err)
	}
	if wp.Hold.Timer != 300 {
		t.Errorf("timer %f, expected 300", wp.Hold.Timer)
	}
	if err := wp.ClearHoldTimer(); err != nil {
		t.Fatalf("ClearHoldTimer: %v", err)
	}
	if wp.Hold.Timer != UnsetHoldTimer {
		t.Errorf("timer %f after clear, expected unset", wp.Hold.Timer)
	}
}

func TestWaypointArmHold(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("CLAYT"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := wp.UpdateHold(HoldPatch{}); !errors.Is(err, ErrNotHoldWaypoint) {
		t.Errorf("UpdateHold on plain waypoint: got %v, expected ErrNotHoldWaypoint", err)
	}
	if err := wp.SetHoldTimer(60); !errors.Is(err, ErrNotHoldWaypoint) {
		t.Errorf("SetHoldTimer on plain waypoint: got %v, expected ErrNotHoldWaypoint", err)
	}

	hold := MakeHoldParameters()
	hold.TurnDirection = TurnLeft
	wp.ArmHold(hold)
	if !wp.IsHold() || wp.Hold == nil || wp.Hold.TurnDirection != TurnLeft {
		t.Errorf("ArmHold did not take: class %s, hold %+v", wp.Class, wp.Hold)
	}
	// ArmHold copies; mutating the caller's struct must not leak in.
	hold.TurnDirection = TurnRight
	if wp.Hold.TurnDirection != TurnLeft {
		t.Errorf("ArmHold aliased the caller's parameters")
	}
}

func TestWaypointUnknownFix(t *testing.T) {
	fixes := makeTestRegistry(t)

	for _, token := range []string{"NOPED", "@NOPED", "^NOPED"} {
		if _, err := MakeWaypoint(MakeRouteEntry(token), fixes); !errors.Is(err, ErrUnknownFix) {
			t.Errorf("%q: got %v, expected ErrUnknownFix", token, err)
		}
	}
}

func TestWaypointDisplayName(t *testing.T) {
	fixes := makeTestRegistry(t)

	wp, err := MakeWaypoint(MakeRouteEntry("_RW22L"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if wp.DisplayName() != "RNAV" {
		t.Errorf("synthetic fix display name %q, expected \"RNAV\"", wp.DisplayName())
	}

	wp, err = MakeWaypoint(MakeRouteEntry("CLAYT"), fixes)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if wp.DisplayName() != "CLAYT" {
		t.Errorf("display name %q, expected \"CLAYT\"", wp.DisplayName())
	}
}

func TestWaypointParseDeterministic(t *testing.T) {
	fixes := makeTestRegistry(t)

	for _, token := range []string{"CLAYT", "@CLAYT|A50-|S210-", "^MOLDY|A80+", "#270"} {
		a, err := MakeWaypoint(MakeRouteEntry(token), fixes)
		if err != nil {
			t.Fatalf("%q: %v", token, err)
		}
		b, err := MakeWaypoint(MakeRouteEntry(token), fixes)
		if err != nil {
			t.Fatalf("%q: %v", token, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%q: parsing twice gave different waypoints: %+v vs %+v", token, a, b)
		}
	}
}
