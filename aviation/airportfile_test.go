// aviation/airportfile_test.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const testAirportJSON = `{
  "icao": "KTST",
  "position": [40, -75],
  "runways": [{"id": "22L", "threshold": [40.01, -75.01], "heading": 220}],
  "fixes": {
    "CLAYT": [40, -75],
    "MOLDY": [41, -75]
  },
  "airways": {"V16": ["CLAYT", "MOLDY"]},
  "stars": {
    "MOLDY4": {
      "entries": {"MOLDY": ["MOLDY"]},
      "body": [["@CLAYT", "A50-"]],
      "exits": {"22L": ["_RW22L"]}
    }
  }
}`

func writeTestAirport(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	if strings.HasSuffix(name, ".zst") {
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		zw, err := zstd.NewWriter(f)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if _, err := zw.Write([]byte(contents)); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
	} else if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return path
}

func TestLoadAirport(t *testing.T) {
	for _, name := range []string{"ktst.json", "ktst.json.zst"} {
		path := writeTestAirport(t, name, testAirportJSON)
		ap, err := LoadAirport(path, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if ap.ICAO != "KTST" {
			t.Errorf("%s: icao %q, expected KTST", name, ap.ICAO)
		}
		if len(ap.Fixes) != 2 || len(ap.Airways) != 1 || len(ap.STARs) != 1 {
			t.Errorf("%s: got %d fixes, %d airways, %d STARs", name,
				len(ap.Fixes), len(ap.Airways), len(ap.STARs))
		}
		// Positions come in as [latitude, longitude].
		if p := ap.Fixes["MOLDY"]; p.Latitude() != 41 || p.Longitude() != -75 {
			t.Errorf("%s: MOLDY at %s", name, p.DDString())
		}

		nav := NewNavigationLibrary(nil)
		if err := nav.Init(ap); err != nil {
			t.Errorf("%s: Init: %v", name, err)
		}
	}
}

func TestLoadAirportDuplicateKeys(t *testing.T) {
	path := writeTestAirport(t, "dup.json",
		`{"icao": "KTST", "position": [40, -75], "fixes": {"CLAYT": [40, -75], "CLAYT": [41, -75]}}`)
	_, err := LoadAirport(path, nil)
	if err == nil {
		t.Fatalf("expected error for duplicate JSON key")
	}
	if !strings.Contains(err.Error(), "CLAYT") {
		t.Errorf("error %q does not name the duplicate key", err)
	}
}

func TestLoadAirportValidation(t *testing.T) {
	for _, c := range []struct {
		json string
		want string
	}{
		{`{"position": [40, -75], "fixes": {"CLAYT": [40, -75]}}`, "icao"},
		{`{"icao": "KTST", "fixes": {"CLAYT": [40, -75]}}`, "position"},
		{`{"icao": "KTST", "position": [40, -75], "fixes": {}}`, "fixes"},
		{`{"icao": "KTST", "position": [40, -75], "fixes": {"CLAYT": [40, -75]},
		   "runways": [{"id": "22L"}]}`, "22L"},
	} {
		path := writeTestAirport(t, "bad.json", c.json)
		_, err := LoadAirport(path, nil)
		if err == nil {
			t.Errorf("%s: expected validation error", c.json)
		} else if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not mention %q", c.json, err, c.want)
		}
	}
}

func TestAirportCachePath(t *testing.T) {
	// Same basename in different directories must not share a cache slot.
	a := airportCachePath("/data/east/ktst.json")
	b := airportCachePath("/data/west/ktst.json")
	if a == b {
		t.Errorf("cache paths collide: %s", a)
	}
	if airportCachePath("/data/east/ktst.json") != a {
		t.Errorf("cache path not stable for the same source path")
	}
}
