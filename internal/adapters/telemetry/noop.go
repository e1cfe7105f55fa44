// Package telemetry implements the Telemetry port: a no-op default and an
// OpenTelemetry metrics recorder for development diagnostics.
package telemetry

import (
	"time"

	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.Telemetry = Noop{}

// Noop discards all measurements. It is the default wiring; diagnostics
// are opt-in.
type Noop struct{}

// NewNoop creates a Noop recorder.
func NewNoop() Noop { return Noop{} }

func (Noop) RecordElementLookup(bool) {}

func (Noop) RecordResolutionLookup(bool) {}

func (Noop) RecordSweep(time.Duration, int) {}
