package domain

import "go.trai.ch/zerr"

var (
	// ErrStubFunctionInvoked is returned when a function reconstructed
	// from a signature is called. Decoded functions carry identity only.
	ErrStubFunctionInvoked = zerr.New("decoded function stub invoked")

	// ErrBuilderUnavailable is returned when node construction is asked to
	// produce an artifact but no builder was wired.
	ErrBuilderUnavailable = zerr.New("no artifact builder configured")
)
