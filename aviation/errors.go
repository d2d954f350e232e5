// aviation/errors.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrUnknownFix            = errors.New("Unknown fix")
	ErrVectorWaypoint        = errors.New("Vector waypoints have no position")
	ErrNotHoldWaypoint       = errors.New("Waypoint is not a hold waypoint")
	ErrRegistryPopulated     = errors.New("Fix registry is already populated")
	ErrFixNotOnAirway        = errors.New("Fix is not part of the airway")
	ErrUnknownProcedureExit  = errors.New("Unknown exit for procedure")
	ErrUnknownProcedureEntry = errors.New("Unknown entry for procedure")
)
