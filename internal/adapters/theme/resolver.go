// Package theme implements copy-on-write resolution of theme placeholders
// in property graphs.
package theme

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.ThemeResolver = (*Resolver)(nil)

// placeholderPattern matches theme.<dotted.path> occurrences inside
// string leaves.
var placeholderPattern = regexp.MustCompile(`theme\.([A-Za-z0-9_$-]+(?:\.[A-Za-z0-9_$-]+)*)`)

// Resolver rewrites property graphs against a theme dictionary.
//
// Unresolved or invalid paths are handled leniently and uniformly: the
// placeholder text is left verbatim. Resolution never fails.
type Resolver struct {
	logger ports.Logger
}

// NewResolver creates a Resolver.
func NewResolver(logger ports.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// result is the outcome for one node: its resolved value and whether it
// differs from the input. Unchanged subgraphs keep their input reference
// so the host's reference-equality render skipping stays effective.
type result struct {
	value   any
	changed bool
}

// frame is one entry of the explicit traversal stack. Traversal is
// iterative on purpose: property graphs can be deep enough to make
// native recursion an overflow hazard.
type frame struct {
	node    any
	key     refKey
	entered bool
	parent  *frame
	slot    int

	keys    []string // plain-object child keys, sorted
	results []result
}

// Resolve walks the graph iteratively and returns it with every
// theme.<path> placeholder replaced from the theme dictionary. Containers
// are reconstructed only along changed paths; everything else returns by
// reference.
func (r *Resolver) Resolve(graph any, themeDict *domain.Theme, opts domain.ResolveOptions) any {
	walk := &resolveWalk{
		resolver: r,
		theme:    themeDict,
		opts:     opts,
		memo:     make(map[refKey]result),
		onPath:   make(map[refKey]bool),
		lookups:  make(map[string]lookupResult),
	}

	root := &frame{node: graph}
	stack := []*frame{root}
	var rootResult result

	deliver := func(f *frame, res result) {
		if f.parent == nil {
			rootResult = res
			return
		}
		f.parent.results[f.slot] = res
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if !f.entered {
			if res, handled := walk.resolveLeaf(f.node); handled {
				stack = stack[:len(stack)-1]
				deliver(f, res)
				continue
			}

			key, ok := containerKey(f.node)
			if !ok {
				// Empty containers have nothing to resolve.
				stack = stack[:len(stack)-1]
				deliver(f, result{value: f.node})
				continue
			}
			f.key = key

			if res, ok := walk.memo[key]; ok {
				stack = stack[:len(stack)-1]
				deliver(f, res)
				continue
			}
			if walk.onPath[key] {
				// Back-reference along the current descent chain. Leave
				// the cycle edge as-is; the container is resolved where
				// it was first entered.
				stack = stack[:len(stack)-1]
				deliver(f, result{value: f.node})
				continue
			}

			walk.onPath[key] = true
			f.entered = true
			stack = pushChildren(stack, f)
			continue
		}

		// All children resolved; rebuild copy-on-write.
		res := rebuild(f)
		delete(walk.onPath, f.key)
		walk.memo[f.key] = res
		stack = stack[:len(stack)-1]
		deliver(f, res)
	}

	return rootResult.value
}

type lookupResult struct {
	value any
	ok    bool
}

type resolveWalk struct {
	resolver *Resolver
	theme    *domain.Theme
	opts     domain.ResolveOptions
	memo     map[refKey]result
	onPath   map[refKey]bool
	lookups  map[string]lookupResult
}

// resolveLeaf handles non-container nodes. handled=false means the node
// is a container the caller must descend into.
func (w *resolveWalk) resolveLeaf(node any) (result, bool) {
	switch leaf := node.(type) {
	case string:
		value, changed := w.resolveString(leaf)
		return result{value: value, changed: changed}, true
	case *domain.Func:
		if !w.opts.ProcessFunctions || leaf == nil || leaf.IsStub() {
			return result{value: node}, true
		}
		out, err := leaf.Invoke(w.theme)
		if err != nil {
			w.resolver.logger.Warn("theme function failed, leaving leaf unchanged", "name", leaf.Name, "error", err)
			return result{value: node}, true
		}
		if s, ok := out.(string); ok {
			value, _ := w.resolveString(s)
			return result{value: value, changed: true}, true
		}
		return result{value: out, changed: true}, true
	case map[string]any, []any, *domain.OrderedMap, *domain.Set:
		return result{}, false
	default:
		return result{value: node}, true
	}
}

// maxChase bounds how many dictionary indirections a single placeholder
// may follow, so a token that points at itself cannot loop.
const maxChase = 4

// resolveString replaces theme.<path> occurrences in s. When the whole
// string is a single placeholder, the resolved value replaces it with its
// own type preserved; embedded placeholders are stringified in place.
func (w *resolveWalk) resolveString(s string) (any, bool) {
	return w.resolveStringDepth(s, 0)
}

func (w *resolveWalk) resolveStringDepth(s string, depth int) (any, bool) {
	if !strings.Contains(s, "theme.") {
		return s, false
	}

	if path, ok := wholePlaceholder(s); ok {
		value, found := w.lookup(path)
		if !found {
			return s, false
		}
		if str, ok := value.(string); ok {
			if str == s {
				return s, false
			}
			// The dictionary may itself hold placeholders.
			if strings.Contains(str, "theme.") && depth < maxChase {
				resolved, _ := w.resolveStringDepth(str, depth+1)
				return resolved, true
			}
			return str, true
		}
		if domain.IsScalar(value) {
			return value, true
		}
		// Non-scalar, non-{default} shaped value: lenient, placeholder
		// stays verbatim.
		return s, false
	}

	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		path := strings.TrimPrefix(match, "theme.")
		value, found := w.lookup(path)
		if !found || !domain.IsScalar(value) {
			return match
		}
		return fmt.Sprint(value)
	})
	return out, out != s
}

// lookup consults the theme dictionary through a per-resolve cache, since
// the same token path typically repeats across many leaves.
func (w *resolveWalk) lookup(path string) (any, bool) {
	if cached, ok := w.lookups[path]; ok {
		return cached.value, cached.ok
	}
	value, ok := w.theme.Lookup(path)
	w.lookups[path] = lookupResult{value: value, ok: ok}
	return value, ok
}

// wholePlaceholder reports whether s is exactly one theme.<path>
// placeholder and returns the path.
func wholePlaceholder(s string) (string, bool) {
	loc := placeholderPattern.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return "", false
	}
	return strings.TrimPrefix(s, "theme."), true
}

// pushChildren appends one frame per child of f and sizes f.results to
// receive them.
func pushChildren(stack []*frame, f *frame) []*frame {
	switch c := f.node.(type) {
	case map[string]any:
		f.keys = sortedKeys(c)
		f.results = make([]result, len(f.keys))
		for i, k := range f.keys {
			stack = append(stack, &frame{node: c[k], parent: f, slot: i})
		}
	case []any:
		f.results = make([]result, len(c))
		for i, item := range c {
			stack = append(stack, &frame{node: item, parent: f, slot: i})
		}
	case *domain.OrderedMap:
		entries := c.Entries()
		f.results = make([]result, 2*len(entries))
		for i, entry := range entries {
			stack = append(stack, &frame{node: entry.Key, parent: f, slot: 2 * i})
			stack = append(stack, &frame{node: entry.Value, parent: f, slot: 2*i + 1})
		}
	case *domain.Set:
		f.results = make([]result, len(c.Values))
		for i, item := range c.Values {
			stack = append(stack, &frame{node: item, parent: f, slot: i})
		}
	}
	return stack
}

// rebuild assembles the resolved container. A new container is allocated
// only if at least one child changed; otherwise the original reference is
// returned and the unchanged signal propagates upward.
func rebuild(f *frame) result {
	changed := false
	for i := range f.results {
		if f.results[i].changed {
			changed = true
			break
		}
	}
	if !changed {
		return result{value: f.node}
	}

	switch c := f.node.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for i, k := range f.keys {
			out[k] = f.results[i].value
		}
		return result{value: out, changed: true}
	case []any:
		out := make([]any, len(f.results))
		for i := range f.results {
			out[i] = f.results[i].value
		}
		return result{value: out, changed: true}
	case *domain.OrderedMap:
		entries := make([]domain.MapEntry, len(f.results)/2)
		for i := range entries {
			entries[i] = domain.MapEntry{
				Key:   f.results[2*i].value,
				Value: f.results[2*i+1].value,
			}
		}
		return result{value: domain.WithEntries(entries), changed: true}
	case *domain.Set:
		values := make([]any, len(f.results))
		for i := range f.results {
			values[i] = f.results[i].value
		}
		return result{value: domain.NewSet(values...), changed: true}
	default:
		return result{value: f.node}
	}
}

// refKey identifies a container instance for memoization and cycle
// detection within one resolve call.
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

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic child order keeps traversal stable across runs.
	sort.Strings(keys)
	return keys
}
