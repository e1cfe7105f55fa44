package ports

import "go.trai.ch/memo/internal/core/domain"

// ArtifactBuilder produces platform render artifacts from resolved
// properties. It is the external collaborator on the other side of the
// cache: the memoization core never inspects what it returns.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type ArtifactBuilder interface {
	Build(elementType string, resolvedProps any) (*domain.Artifact, error)
}
