// aviation/airportfile.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/towersim/towersim/log"
	"github.com/towersim/towersim/util"
)

// LoadAirport reads and validates an airport definition from a JSON
// file; files with a ".zst" suffix are decompressed first. Duplicate
// keys in the JSON are an error since encoding/json silently keeps the
// last one, which hides data bugs in hand-edited airport files.
func LoadAirport(path string, lg *log.Logger) (*AirportDescriptor, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(bytes.NewReader(contents), zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		if contents, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	e := &util.ErrorLogger{}
	e.Push(filepath.Base(path))
	if dups := util.FindDuplicateJSONKeys(contents); len(dups) > 0 {
		for _, dup := range dups {
			if dup.Path == "" {
				e.ErrorString("duplicate key %q", dup.Key)
			} else {
				e.ErrorString("%s: duplicate key %q", dup.Path, dup.Key)
			}
		}
		return nil, errors.New(e.String())
	}

	var ap AirportDescriptor
	if err := json.Unmarshal(contents, &ap); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	validateAirport(&ap, e)
	if e.HaveErrors() {
		return nil, errors.New(e.String())
	}

	lg.Infof("%s: loaded %s: %d fixes, %d airways, %d SIDs, %d STARs",
		path, ap.ICAO, len(ap.Fixes), len(ap.Airways), len(ap.SIDs), len(ap.STARs))
	return &ap, nil
}

func validateAirport(ap *AirportDescriptor, e *util.ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	if ap.ICAO == "" {
		e.ErrorString("airport has no \"icao\" identifier")
	}
	if ap.Position.IsZero() {
		e.ErrorString("airport has no \"position\"")
	}
	if len(ap.Fixes) == 0 {
		e.ErrorString("airport defines no fixes")
	}

	e.Push("runways")
	for _, rwy := range ap.Runways {
		if rwy.Id == "" {
			e.ErrorString("runway with empty id")
		} else if rwy.Threshold.IsZero() {
			e.ErrorString("runway %s has no threshold", rwy.Id)
		}
	}
	e.Pop()
}

// cachedAirport is what goes to disk for LoadAirportCached.
type cachedAirport struct {
	SourceModTime int64
	Airport       AirportDescriptor
}

// airportCachePath keys the cache on the full path, not just the
// basename, so same-named airport files in different directories get
// distinct cache slots.
func airportCachePath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return filepath.Join("airports", fmt.Sprintf("%x-%s.msgpack", sum[:8], filepath.Base(path)))
}

// LoadAirportCached is LoadAirport behind a per-file disk cache keyed on
// the source's modification time, skipping the decompress / duplicate
// key scan / validate pipeline when the file is unchanged. Cache
// failures of any kind fall back to a full load.
func LoadAirportCached(path string, lg *log.Logger) (*AirportDescriptor, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	cachePath := airportCachePath(path)

	var ca cachedAirport
	if _, err := util.CacheRetrieveObject(cachePath, &ca); err == nil {
		if ca.SourceModTime == fi.ModTime().UnixNano() {
			lg.Debugf("%s: airport cache hit", path)
			return &ca.Airport, nil
		}
		lg.Debugf("%s: airport cache stale", path)
	}

	ap, err := LoadAirport(path, lg)
	if err != nil {
		return nil, err
	}

	ca = cachedAirport{SourceModTime: fi.ModTime().UnixNano(), Airport: *ap}
	if err := util.CacheStoreObject(cachePath, ca); err != nil {
		lg.Warnf("%s: unable to cache airport: %v", path, err)
	}
	return ap, nil
}
