// Package ports defines the interfaces between the memoization core and
// its adapters.
package ports

import "go.trai.ch/memo/internal/core/domain"

// Encoder turns value graphs into deterministic signatures and back.
//
//go:generate mockgen -source=encoder.go -destination=mocks/mock_encoder.go -package=mocks
type Encoder interface {
	// Encode produces the canonical signature of a value graph. It never
	// fails: unencodable leaves degrade to a sentinel encoding.
	Encode(v any) domain.Signature

	// Decode reconstructs a value graph from a signature. Unknown tags
	// pass through as plain data; only malformed input is an error.
	Decode(sig domain.Signature) (any, error)
}
