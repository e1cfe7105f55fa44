package cache

import (
	"github.com/cespare/xxhash/v2"

	"go.trai.ch/memo/internal/core/domain"
)

// ResolutionKey digests a (graph signature, theme signature, mode) triple
// into the resolution cache key. The theme signature and mode both
// participate so that two themes, or two modes of one theme, can never
// collide.
func ResolutionKey(graphSig, themeSig domain.Signature, mode string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(graphSig.String())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(themeSig.String())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(mode)
	return d.Sum64()
}

// KeyDigest digests arbitrary canonical text into a compact key, used for
// deriving stable keys from dependency lists.
func KeyDigest(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
