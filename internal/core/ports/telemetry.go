package ports

import "time"

// Telemetry records cache and eviction metrics. Implementations must be
// cheap enough to call on every construction; the default is a no-op.
//
//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// RecordElementLookup records an element cache lookup outcome.
	RecordElementLookup(hit bool)

	// RecordResolutionLookup records a resolution cache lookup outcome.
	RecordResolutionLookup(hit bool)

	// RecordSweep records an eviction sweep with its duration and the
	// number of entries removed.
	RecordSweep(d time.Duration, evicted int)
}
