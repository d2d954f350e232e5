// cmd/navdump/main.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// navdump loads an airport definition file, builds the navigation
// database from it, and prints a summary of its fixes, airways, and
// procedures. It is both a data-validation tool for airport authors and
// a smoke test for the loading pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/towersim/towersim/aviation"
	"github.com/towersim/towersim/log"
	"github.com/towersim/towersim/util"
)

var (
	logLevel = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory (default: user config dir)")
	useCache = flag.Bool("cache", false, "use the on-disk airport cache")
	expand   = flag.String("expand", "", "expand a procedure: \"ID,ENTRY[,EXIT]\"")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: navdump [flags] <airport.json[.zst]>\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}

	lg := log.New(*logLevel, *logDir)

	e := &util.ErrorLogger{}
	load := util.Select(*useCache, aviation.LoadAirportCached, aviation.LoadAirport)
	ap, err := load(flag.Arg(0), lg)
	if err != nil {
		e.Error(err)
	}

	nav := aviation.NewNavigationLibrary(lg)
	if err == nil {
		if err := nav.Init(ap); err != nil {
			e.Push(ap.ICAO)
			e.Error(err)
		}
	}
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	dump(nav, ap)

	if *expand != "" {
		if err := expandProcedure(nav, *expand); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
}

func dump(nav *aviation.NavigationLibrary, ap *aviation.AirportDescriptor) {
	ref := nav.Reference()
	fmt.Printf("%-13s: %s\n", "Airport", ap.ICAO)
	fmt.Printf("%-13s: %s\n", "Position", ref.Location.DDString())
	fmt.Printf("%-13s: %.1f\n", "Mag var", ref.MagneticVariation)

	fmt.Printf("%-13s:\n", "Fixes")
	for _, f := range nav.Fixes().RealFixes() {
		fmt.Printf("    %-10s %s (%.1f km N, %.1f km E)\n",
			f.Name, f.Location.DDString(), f.Relative[0], f.Relative[1])
	}

	fmt.Printf("%-13s:\n", "Airways")
	for _, name := range util.SortedMapKeys(ap.Airways) {
		if a, ok := nav.Airway(name); ok {
			fmt.Printf("    %-10s %s\n", a.Name, strings.Join(a.FixNames, " "))
		}
	}

	printProcs := func(label string, defs map[string]aviation.ProcedureDefinition) {
		fmt.Printf("%-13s:\n", label)
		for _, id := range util.SortedMapKeys(defs) {
			if p, ok := nav.Procedure(id); ok {
				fmt.Printf("    %-10s entries %s, exits %s\n", p.Id,
					strings.Join(util.SortedMapKeys(p.Def.Entries), " "),
					strings.Join(util.SortedMapKeys(p.Def.Exits), " "))
			}
		}
	}
	printProcs("SIDs", ap.SIDs)
	printProcs("STARs", ap.STARs)

	if missing := nav.MissingFixes(); len(missing) > 0 {
		fmt.Printf("%-13s: %s\n", "Missing fixes", strings.Join(missing, " "))
	}
}

func expandProcedure(nav *aviation.NavigationLibrary, spec string) error {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return fmt.Errorf("%s: expected \"ID,ENTRY[,EXIT]\"", spec)
	}
	id, entry := parts[0], parts[1]
	var exit string
	if len(parts) == 3 {
		exit = parts[2]
	}

	p, ok := nav.Procedure(id)
	if !ok {
		return fmt.Errorf("%s: unknown procedure", id)
	}

	wps, err := p.WaypointsBetween(entry, exit, nav.Fixes())
	if err != nil {
		return err
	}

	fmt.Printf("%-13s:\n", p.Id)
	for _, wp := range wps {
		fmt.Printf("    %s\n", wp)
	}
	return nil
}
