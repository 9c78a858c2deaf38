package repository

import (
	"context"

	"github.com/fastygo/ideaflow/domain"
)

// ConceptMutator is applied to a freshly loaded concept. It may run more than once
// when the write conflicts, so it must not have side effects outside the aggregate.
type ConceptMutator func(c *domain.Concept) error

// ConceptRepository persists the concept aggregate.
type ConceptRepository interface {
	Add(ctx context.Context, concept *domain.Concept) error
	GetByID(ctx context.Context, id string) (*domain.Concept, error)
	// Update loads the concept, applies mutate and writes it back if the stored
	// version is unchanged. A concurrent write yields domain.ErrVersionConflict.
	Update(ctx context.Context, id string, mutate ConceptMutator) (*domain.Concept, error)
}
