package ports

import "go.trai.ch/memo/internal/core/domain"

// ThemeResolver rewrites property graphs against a theme dictionary.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ThemeResolver interface {
	// Resolve replaces theme.<path> placeholders in the graph. The result
	// is copy-on-write: a subgraph with no resolved placeholders comes
	// back as the identical input reference.
	Resolve(graph any, theme *domain.Theme, opts domain.ResolveOptions) any
}
