package domain

// Signature is the deterministic canonical encoding of a value graph.
// Structurally equal graphs produce equal signatures regardless of key
// insertion order or cycle topology, so signatures serve directly as
// cache equality keys.
type Signature string

// String returns the raw canonical text.
func (s Signature) String() string { return string(s) }

// StableKey identifies a node slot independent of its content. The same
// StableKey across renders means the same logical UI position, which is
// what correlates cache entries and mount state over time.
type StableKey string

// String returns the key text.
func (k StableKey) String() string { return string(k) }

// NodeKey describes how a constructed node is keyed. A node is cacheable
// when it carries an explicit key or a dependency list; otherwise every
// construction is a miss.
type NodeKey struct {
	// Explicit is a caller-chosen stable key. Takes precedence over Deps.
	Explicit StableKey

	// Deps is a dependency list from which a stable key is derived,
	// combined with Position.
	Deps []any

	// Position is the structural position of the node slot, used to
	// disambiguate derived keys between sibling slots.
	Position string
}

// Cacheable reports whether the node participates in element caching.
func (k NodeKey) Cacheable() bool {
	return k.Explicit != "" || k.Deps != nil
}

// Artifact is an opaque render artifact produced by the node-construction
// collaborator. The cache stores and returns it without inspecting Value.
type Artifact struct {
	ElementType string
	Value       any
}

// Boundary is the lifecycle wrapper around a cached artifact. Exactly one
// active boundary exists per live StableKey; Mount and Unmount fire the
// mount tracker once per visibility transition.
type Boundary interface {
	// Mount marks the slot live. A second Mount without an intervening
	// Unmount is a no-op.
	Mount()

	// Unmount marks the slot gone and reports whether it was live. The
	// current key is read at call time, not captured at creation.
	Unmount() bool

	// Key returns the slot key the boundary currently observes.
	Key() StableKey
}

// Handle is what node construction hands back to the host: the artifact
// plus its lifecycle boundary. A cache hit returns the identical Handle,
// preserving reference equality for the host's render skipping.
type Handle struct {
	Key       StableKey
	Signature Signature
	Artifact  *Artifact
	Boundary  Boundary
}
