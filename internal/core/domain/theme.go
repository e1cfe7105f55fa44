package domain

import (
	"strings"
)

// Theme is a nested dictionary consulted by theme.<dotted.path> placeholder
// strings and by theme-aware function leaves. Mode participates in cache
// keys so that, for example, light and dark resolutions never collide.
type Theme struct {
	// Mode names the active variant, e.g. "light" or "dark".
	Mode string

	// Vars is the nested dictionary. Values are plain objects, arrays,
	// and scalars.
	Vars map[string]any
}

// Lookup resolves a dotted path like "spacing.md" against Vars, descending
// through nested plain objects. A terminal value shaped {default: x}
// unwraps to x. The second return is false when any segment is missing or
// a non-terminal segment is not a plain object.
func (t *Theme) Lookup(path string) (any, bool) {
	if t == nil || t.Vars == nil || path == "" {
		return nil, false
	}

	var current any = t.Vars
	for seg := range strings.SplitSeq(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}

	// Unwrap the {default: x} shape produced by token dictionaries.
	if obj, ok := current.(map[string]any); ok {
		if def, ok := obj["default"]; ok && len(obj) == 1 {
			return def, true
		}
	}
	return current, true
}

// ResolveOptions controls theme graph resolution.
type ResolveOptions struct {
	// ProcessFunctions invokes function leaves with the theme and splices
	// their result into the graph, resolving any theme placeholders the
	// result contains.
	ProcessFunctions bool
}

// IsScalar reports whether v can replace a placeholder inside a string:
// strings, booleans, and numbers qualify, containers do not.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return true
	default:
		return false
	}
}
