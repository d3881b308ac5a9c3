// Package light contains the light state table, the reconciliation engine,
// and the derived system statistics. This package performs no I/O of its own
// beyond the adapter handed to the engine; time and randomness are injectable.
package light

import (
	"errors"
	"time"
)

// State represents the logical relay state of one light.
type State string

const (
	StateOn  State = "ON"
	StateOff State = "OFF"
)

// NumLights is the fixed fleet size.
const NumLights = 4

// FaultIndex is the light that permanently reports a failed sensor.
// It is excluded from automatic control; manual control still reaches it.
const FaultIndex = 2

// FaultLux is the reserved lux sentinel for "sensor fault / unmeasured".
const FaultLux = -1

// Sampling ranges for synthesized electrical readings.
const (
	VoltageMin = 11.5
	VoltageMax = 12.5
	CurrentMin = 1.0
	CurrentMax = 1.4

	// Lux ranges: low while dark (light ON), high while bright (light OFF).
	DarkLuxMax   = 50
	BrightLuxMin = 450
	BrightLuxMax = 550
)

// BusVoltage is the reported total voltage whenever any light is ON.
// The bus is constant once any load is present; it is not a per-light sum.
const BusVoltage = 12.0

// DefaultWarnThreshold is the aggregate current above which the system
// reports a warning. Placeholder value carried from the original design;
// override via configuration.
const DefaultWarnThreshold = 6.0

// Record is the state of one light. Index 0..3 in the table, ID 1..4 on
// the wire.
type Record struct {
	ID      int
	Relay   State
	Voltage float64
	Current float64
	Lux     int
}

// Stats is the system-wide aggregate derived from a table snapshot.
// Recomputed on every read, never stored.
type Stats struct {
	TotalVoltage float64
	TotalCurrent float64
	TotalLux     int
	SystemStatus string
}

// System status strings reported by ComputeStats.
const (
	StatusOK          = "No Fault"
	StatusHighCurrent = "Warning: High Current"
)

// ErrInvalidInput is wrapped by SetManual when the light id or action is
// rejected. Callers map it to a client error; the table is left unmodified.
var ErrInvalidInput = errors.New("invalid input")

// Source identifies what commanded a relay transition.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
)

// Event is emitted on every relay state transition.
type Event struct {
	Timestamp time.Time
	LightID   int // 1..4
	Relay     State
	Source    Source
}
