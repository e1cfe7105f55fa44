// Package encode implements the canonical encoder: deterministic,
// cycle-safe signatures for arbitrary property graphs, with a lossless
// inverse for everything except function behavior.
package encode

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.Encoder = (*Encoder)(nil)

// Wire tags. Plain-object keys beginning with "$" are escaped to "$$" so
// user data can never collide with a tag.
const (
	tagFunc    = "$fn"
	tagSymbol  = "$sym"
	tagDate    = "$date"
	tagRegex   = "$regex"
	tagBigInt  = "$bigint"
	tagMap     = "$map"
	tagSet     = "$set"
	tagOpaque  = "$unserializable"
	tagCycleID = "$id"
	tagCycleV  = "$v"
	tagRef     = "$ref"
)

// Encoder produces canonical signatures. The zero value is not usable;
// construct with New. Function identity is process-scoped: the same *Func
// encodes to the same id for the lifetime of the encoder.
type Encoder struct {
	mu      sync.Mutex
	funcIDs map[*domain.Func]int64
	nextFn  int64
}

// New creates an Encoder with an empty function identity registry.
func New() *Encoder {
	return &Encoder{funcIDs: make(map[*domain.Func]int64)}
}

// refKey identifies a container instance for cycle bookkeeping.
type refKey struct {
	ptr  uintptr
	kind uint8
	n    int
}

const (
	kindObject uint8 = iota + 1
	kindArray
	kindOrderedMap
	kindSet
)

// containerKey returns the identity key of a container, or ok=false for
// leaves and empty containers (which cannot participate in a cycle).
func containerKey(v any) (refKey, bool) {
	switch c := v.(type) {
	case map[string]any:
		if len(c) == 0 {
			return refKey{}, false
		}
		return refKey{ptr: reflect.ValueOf(c).Pointer(), kind: kindObject}, true
	case []any:
		if len(c) == 0 {
			return refKey{}, false
		}
		return refKey{ptr: reflect.ValueOf(c).Pointer(), kind: kindArray, n: len(c)}, true
	case *domain.OrderedMap:
		if c == nil {
			return refKey{}, false
		}
		return refKey{ptr: reflect.ValueOf(c).Pointer(), kind: kindOrderedMap}, true
	case *domain.Set:
		if c == nil {
			return refKey{}, false
		}
		return refKey{ptr: reflect.ValueOf(c).Pointer(), kind: kindSet}, true
	default:
		return refKey{}, false
	}
}

// Encode produces the canonical signature of v. Plain-object keys are
// sorted, so insertion order never affects the result; arrays, ordered
// maps, and sets keep their order. Unencodable leaves degrade to a
// sentinel encoding rather than failing.
func (e *Encoder) Encode(v any) domain.Signature {
	w := &encodeWalk{
		enc:      e,
		cycleIDs: make(map[refKey]int64),
	}

	// First walk: find the containers that are revisited along their own
	// descent path and assign them sequential ids. Both walks visit plain
	// object keys in sorted order, so the numbering is deterministic.
	w.mark(v)

	wire := w.write(v)

	// The wire tree contains only marshalable values; non-finite floats
	// were already rewritten into opaque leaves by writeLeaf.
	data, _ := json.Marshal(wire)
	return domain.Signature(data)
}

type encodeWalk struct {
	enc      *Encoder
	cycleIDs map[refKey]int64
	nextID   int64
}

// wframe is one container on the explicit traversal stack. The walks are
// iterative for the same reason the theme resolver is: property graphs
// can be arbitrarily deep, and the goroutine stack is not.
type wframe struct {
	node    any
	key     refKey
	entered bool
	parent  *wframe
	slot    int

	keys    []string // plain-object child keys, sorted
	results []any
}

// mark walks the graph recording containers that get a back-reference.
// Children are pushed in reverse so ids are assigned in document order.
func (w *encodeWalk) mark(root any) {
	onPath := make(map[refKey]bool)
	stack := []*wframe{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.entered {
			delete(onPath, f.key)
			stack = stack[:len(stack)-1]
			continue
		}

		key, ok := containerKey(f.node)
		if !ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if onPath[key] {
			if _, assigned := w.cycleIDs[key]; !assigned {
				w.nextID++
				w.cycleIDs[key] = w.nextID
			}
			stack = stack[:len(stack)-1]
			continue
		}

		f.key = key
		f.entered = true
		onPath[key] = true

		switch c := f.node.(type) {
		case map[string]any:
			keys := sortedKeys(c)
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, &wframe{node: c[keys[i]]})
			}
		case []any:
			for i := len(c) - 1; i >= 0; i-- {
				stack = append(stack, &wframe{node: c[i]})
			}
		case *domain.OrderedMap:
			entries := c.Entries()
			for i := len(entries) - 1; i >= 0; i-- {
				stack = append(stack, &wframe{node: entries[i].Value})
				stack = append(stack, &wframe{node: entries[i].Key})
			}
		case *domain.Set:
			for i := len(c.Values) - 1; i >= 0; i-- {
				stack = append(stack, &wframe{node: c.Values[i]})
			}
		}
	}
}

// write converts the graph to its wire form. Finished subtrees are
// delivered into the parent frame's result slot; the root's delivery is
// the return value.
func (w *encodeWalk) write(root any) any {
	var rootWire any
	deliver := func(f *wframe, wire any) {
		if f.parent == nil {
			rootWire = wire
			return
		}
		f.parent.results[f.slot] = wire
	}

	onPath := make(map[refKey]bool)
	stack := []*wframe{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.entered {
			stack = stack[:len(stack)-1]
			delete(onPath, f.key)
			deliver(f, w.finish(f))
			continue
		}

		key, ok := containerKey(f.node)
		if !ok {
			stack = stack[:len(stack)-1]
			deliver(f, w.writeLeaf(f.node))
			continue
		}
		if onPath[key] {
			stack = stack[:len(stack)-1]
			deliver(f, map[string]any{tagRef: w.cycleIDs[key]})
			continue
		}

		f.key = key
		f.entered = true
		onPath[key] = true

		switch c := f.node.(type) {
		case map[string]any:
			f.keys = sortedKeys(c)
			f.results = make([]any, len(f.keys))
			for i, k := range f.keys {
				stack = append(stack, &wframe{node: c[k], parent: f, slot: i})
			}
		case []any:
			f.results = make([]any, len(c))
			for i, item := range c {
				stack = append(stack, &wframe{node: item, parent: f, slot: i})
			}
		case *domain.OrderedMap:
			entries := c.Entries()
			f.results = make([]any, 2*len(entries))
			for i, entry := range entries {
				stack = append(stack, &wframe{node: entry.Key, parent: f, slot: 2 * i})
				stack = append(stack, &wframe{node: entry.Value, parent: f, slot: 2*i + 1})
			}
		case *domain.Set:
			f.results = make([]any, len(c.Values))
			for i, item := range c.Values {
				stack = append(stack, &wframe{node: item, parent: f, slot: i})
			}
		}
	}

	return rootWire
}

// finish assembles the wire body of a fully visited container and wraps
// it when the container is a cycle target.
func (w *encodeWalk) finish(f *wframe) any {
	var body any
	switch f.node.(type) {
	case map[string]any:
		obj := make(map[string]any, len(f.keys))
		for i, k := range f.keys {
			obj[escapeKey(k)] = f.results[i]
		}
		body = obj
	case []any:
		body = f.results
	case *domain.OrderedMap:
		entries := make([]any, 0, len(f.results)/2)
		for i := 0; i < len(f.results); i += 2 {
			entries = append(entries, []any{f.results[i], f.results[i+1]})
		}
		body = map[string]any{tagMap: entries}
	case *domain.Set:
		body = map[string]any{tagSet: f.results}
	}

	if id, cyclic := w.cycleIDs[f.key]; cyclic {
		return map[string]any{tagCycleID: id, tagCycleV: body}
	}
	return body
}

func (w *encodeWalk) writeLeaf(v any) any {
	switch leaf := v.(type) {
	case nil, bool, string, int, int64:
		return leaf
	case float64:
		if math.IsNaN(leaf) || math.IsInf(leaf, 0) {
			// Non-finite numbers have no JSON form. Degrade the single
			// leaf so the rest of the graph still shapes the signature.
			return map[string]any{tagOpaque: strconv.FormatFloat(leaf, 'g', -1, 64)}
		}
		return leaf
	case *domain.Func:
		return map[string]any{tagFunc: map[string]any{
			"id":   w.enc.funcID(leaf),
			"name": leaf.Name,
		}}
	case domain.Symbol:
		return map[string]any{tagSymbol: leaf.Description}
	case time.Time:
		return map[string]any{tagDate: leaf.UTC().Format(time.RFC3339Nano)}
	case *regexp.Regexp:
		return map[string]any{tagRegex: leaf.String()}
	case *big.Int:
		return map[string]any{tagBigInt: leaf.String()}
	case map[string]any:
		// Only empty containers reach here; they have no identity to track.
		return map[string]any{}
	case []any:
		return []any{}
	default:
		return map[string]any{tagOpaque: reflect.TypeOf(v).String()}
	}
}

// funcID returns the stable sequential id for a function leaf. Decoded
// stubs keep the id they were encoded with.
func (e *Encoder) funcID(f *domain.Func) int64 {
	if f.IsStub() {
		return f.StubID()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.funcIDs[f]; ok {
		return id
	}
	e.nextFn++
	e.funcIDs[f] = e.nextFn
	return e.nextFn
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeKey protects user keys from colliding with wire tags.
func escapeKey(k string) string {
	if strings.HasPrefix(k, "$") {
		return "$" + k
	}
	return k
}

func unescapeKey(k string) string {
	if strings.HasPrefix(k, "$$") {
		return k[1:]
	}
	return k
}
