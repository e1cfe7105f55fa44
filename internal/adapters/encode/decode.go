package encode

import (
	"encoding/json"
	"math/big"
	"regexp"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

// Decode reconstructs a value graph from a signature. Special-leaf tags
// are rebuilt into their domain types; a tag the decoder does not
// recognize passes through as plain data instead of failing. Function
// leaves come back as stubs that error only when invoked.
func (e *Encoder) Decode(sig domain.Signature) (any, error) {
	var wire any
	if err := json.Unmarshal([]byte(sig), &wire); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "malformed signature"), "signature_len", len(sig))
	}

	d := &decodeWalk{registry: make(map[int64]any)}
	return d.read(wire), nil
}

type decodeWalk struct {
	// registry maps cycle ids to their reconstructed containers. A
	// container is registered before its children are read, so
	// back-references always find their target.
	registry map[int64]any
}

func (d *decodeWalk) read(wire any) any {
	switch node := wire.(type) {
	case map[string]any:
		return d.readObject(node)
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = d.read(item)
		}
		return out
	default:
		return node
	}
}

func (d *decodeWalk) readObject(node map[string]any) any {
	if len(node) == 1 || len(node) == 2 {
		if special, ok := d.readTagged(node); ok {
			return special
		}
	}

	out := make(map[string]any, len(node))
	for k, v := range node {
		out[unescapeKey(k)] = d.read(v)
	}
	return out
}

// readTagged handles tag-shaped objects. ok=false means the object is
// plain data.
func (d *decodeWalk) readTagged(node map[string]any) (any, bool) {
	if ref, ok := node[tagRef]; ok && len(node) == 1 {
		if id, ok := asID(ref); ok {
			if target, ok := d.registry[id]; ok {
				return target, true
			}
		}
		// A dangling reference passes through as data.
		return nil, false
	}

	if rawID, ok := node[tagCycleID]; ok && len(node) == 2 {
		if body, ok2 := node[tagCycleV]; ok2 {
			if id, ok3 := asID(rawID); ok3 {
				return d.readCycleTarget(id, body), true
			}
		}
		return nil, false
	}

	if len(node) != 1 {
		return nil, false
	}

	for tag, payload := range node {
		switch tag {
		case tagFunc:
			obj, ok := payload.(map[string]any)
			if !ok {
				return nil, false
			}
			id, _ := asID(obj["id"])
			name, _ := obj["name"].(string)
			return domain.NewFuncStub(id, name), true
		case tagSymbol:
			desc, ok := payload.(string)
			if !ok {
				return nil, false
			}
			return domain.Symbol{Description: desc}, true
		case tagDate:
			raw, ok := payload.(string)
			if !ok {
				return nil, false
			}
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return nil, false
			}
			return t, true
		case tagRegex:
			raw, ok := payload.(string)
			if !ok {
				return nil, false
			}
			re, err := regexp.Compile(raw)
			if err != nil {
				return nil, false
			}
			return re, true
		case tagBigInt:
			raw, ok := payload.(string)
			if !ok {
				return nil, false
			}
			n, ok := new(big.Int).SetString(raw, 10)
			if !ok {
				return nil, false
			}
			return n, true
		case tagMap:
			entries, ok := payload.([]any)
			if !ok {
				return nil, false
			}
			return d.readOrderedMap(entries), true
		case tagSet:
			values, ok := payload.([]any)
			if !ok {
				return nil, false
			}
			set := domain.NewSet()
			for _, item := range values {
				set.Values = append(set.Values, d.read(item))
			}
			return set, true
		}
	}
	return nil, false
}

// readCycleTarget reconstructs a container that is the target of one or
// more back-references. The container is allocated and registered first
// so references inside its own subtree resolve to it.
func (d *decodeWalk) readCycleTarget(id int64, body any) any {
	switch b := body.(type) {
	case []any:
		out := make([]any, len(b))
		d.registry[id] = out
		for i, item := range b {
			out[i] = d.read(item)
		}
		return out
	case map[string]any:
		if entries, ok := b[tagMap].([]any); ok && len(b) == 1 {
			m := domain.NewOrderedMap()
			d.registry[id] = m
			for _, raw := range entries {
				pair, ok := raw.([]any)
				if !ok || len(pair) != 2 {
					continue
				}
				m.Set(d.read(pair[0]), d.read(pair[1]))
			}
			return m
		}
		if values, ok := b[tagSet].([]any); ok && len(b) == 1 {
			set := domain.NewSet()
			d.registry[id] = set
			for _, item := range values {
				set.Values = append(set.Values, d.read(item))
			}
			return set
		}

		out := make(map[string]any, len(b))
		d.registry[id] = out
		for k, v := range b {
			out[unescapeKey(k)] = d.read(v)
		}
		return out
	default:
		return d.read(body)
	}
}

func (d *decodeWalk) readOrderedMap(entries []any) *domain.OrderedMap {
	m := domain.NewOrderedMap()
	for _, raw := range entries {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		m.Set(d.read(pair[0]), d.read(pair[1]))
	}
	return m
}

func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
