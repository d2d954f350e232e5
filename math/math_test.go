// math/math_test.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"encoding/json"
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	type HH struct {
		in, out float32
	}
	for _, h := range []HH{
		{in: 0, out: 0},
		{in: 360, out: 0},
		{in: 365, out: 5},
		{in: -5, out: 355},
		{in: -365, out: 355},
		{in: 725, out: 5},
	} {
		if nh := NormalizeHeading(h.in); nh != h.out {
			t.Errorf("NormalizeHeading(%.0f) = %.0f; expected %.0f", h.in, nh, h.out)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	type HD struct {
		a, b, d float32
	}
	for _, h := range []HD{
		{a: 10, b: 350, d: 20},
		{a: 350, b: 10, d: 20},
		{a: 90, b: 270, d: 180},
		{a: 45, b: 45, d: 0},
	} {
		if d := HeadingDifference(h.a, h.b); d != h.d {
			t.Errorf("HeadingDifference(%.0f, %.0f) = %.0f; expected %.0f", h.a, h.b, d, h.d)
		}
	}
}

func TestHeading2LL(t *testing.T) {
	// Due north, due east, due south, due west of a point near 40N.
	p := Point2LL{-73.7, 40.6}
	type HC struct {
		to  Point2LL
		hdg float32
	}
	for _, hc := range []HC{
		{to: Point2LL{-73.7, 41.6}, hdg: 0},
		{to: Point2LL{-72.7, 40.6}, hdg: 90},
		{to: Point2LL{-73.7, 39.6}, hdg: 180},
		{to: Point2LL{-74.7, 40.6}, hdg: 270},
	} {
		h := Heading2LL(p, hc.to, 45, 0)
		if HeadingDifference(h, hc.hdg) > 0.1 {
			t.Errorf("Heading2LL to %v: got %.2f, expected %.2f", hc.to, h, hc.hdg)
		}
	}

	// Magnetic correction is just added on.
	h := Heading2LL(p, Point2LL{-73.7, 41.6}, 45, 13)
	if HeadingDifference(h, 13) > 0.1 {
		t.Errorf("Heading2LL with magnetic correction: got %.2f, expected 13", h)
	}
}

func TestNMDistance2LL(t *testing.T) {
	// One degree of latitude is 60nm.
	d := NMDistance2LL(Point2LL{-73, 40}, Point2LL{-73, 41})
	if Abs(d-60) > 0.5 {
		t.Errorf("one degree latitude distance %f; expected ~60", d)
	}

	if d := NMDistance2LL(Point2LL{-73, 40}, Point2LL{-73, 40}); d != 0 {
		t.Errorf("zero distance gave %f", d)
	}
}

func TestLL2NMRoundTrip(t *testing.T) {
	const nmPerLongitude = 45.5
	p := Point2LL{-73.7789, 40.6397}
	q := NM2LL(LL2NM(p, nmPerLongitude), nmPerLongitude)
	if Abs(p[0]-q[0]) > 1e-4 || Abs(p[1]-q[1]) > 1e-4 {
		t.Errorf("LL2NM/NM2LL round trip %v -> %v", p, q)
	}
}

func TestPoint2LLJSON(t *testing.T) {
	// JSON is [latitude, longitude]; internal storage is the reverse.
	var p Point2LL
	if err := json.Unmarshal([]byte("[40.6397, -73.7789]"), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Latitude() != 40.6397 || p.Longitude() != -73.7789 {
		t.Errorf("got lat %g long %g", p.Latitude(), p.Longitude())
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var q Point2LL
	if err := json.Unmarshal(b, &q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != q {
		t.Errorf("marshal round trip %v -> %v", p, q)
	}
}
