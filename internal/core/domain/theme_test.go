package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/memo/internal/core/domain"
)

func TestTheme_Lookup(t *testing.T) {
	theme := &domain.Theme{
		Mode: "light",
		Vars: map[string]any{
			"spacing": map[string]any{
				"md": "16px",
				"lg": map[string]any{"default": "24px"},
				"xl": map[string]any{"default": "32px", "compact": "28px"},
			},
			"radius": 4,
		},
	}

	value, ok := theme.Lookup("spacing.md")
	require.True(t, ok)
	assert.Equal(t, "16px", value)

	value, ok = theme.Lookup("radius")
	require.True(t, ok)
	assert.Equal(t, 4, value)

	// A single-entry {default: x} wrapper unwraps.
	value, ok = theme.Lookup("spacing.lg")
	require.True(t, ok)
	assert.Equal(t, "24px", value)

	// A wrapper with siblings stays a dictionary.
	value, ok = theme.Lookup("spacing.xl")
	require.True(t, ok)
	assert.IsType(t, map[string]any{}, value)

	_, ok = theme.Lookup("spacing.missing")
	assert.False(t, ok)
	_, ok = theme.Lookup("spacing.md.deeper")
	assert.False(t, ok, "descending through a scalar fails")
	_, ok = theme.Lookup("")
	assert.False(t, ok)

	var nilTheme *domain.Theme
	_, ok = nilTheme.Lookup("spacing.md")
	assert.False(t, ok)
}

func TestNodeKey_Cacheable(t *testing.T) {
	assert.False(t, domain.NodeKey{Position: "root/0"}.Cacheable())
	assert.True(t, domain.NodeKey{Explicit: "card"}.Cacheable())
	assert.True(t, domain.NodeKey{Deps: []any{}, Position: "root/0"}.Cacheable(),
		"an empty dependency list still opts in to caching")
}

func TestIsScalar(t *testing.T) {
	assert.True(t, domain.IsScalar("s"))
	assert.True(t, domain.IsScalar(true))
	assert.True(t, domain.IsScalar(4))
	assert.True(t, domain.IsScalar(float64(4)))
	assert.False(t, domain.IsScalar(nil))
	assert.False(t, domain.IsScalar(map[string]any{}))
	assert.False(t, domain.IsScalar([]any{}))
}
