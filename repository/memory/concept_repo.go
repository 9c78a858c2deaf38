// Package memory holds process-local repositories used by tests and the
// in-memory storage mode. They honour the same version contract as Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
)

type ConceptRepository struct {
	mu    sync.RWMutex
	items map[string]domain.ConceptState
}

// NewConceptRepository creates an empty in-memory concept store.
func NewConceptRepository() *ConceptRepository {
	return &ConceptRepository{items: make(map[string]domain.ConceptState)}
}

var _ repository.ConceptRepository = (*ConceptRepository)(nil)

func (r *ConceptRepository) Add(_ context.Context, concept *domain.Concept) error {
	if concept == nil {
		return domain.ErrInvalidPayload
	}
	state := concept.State()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[state.ID]; exists {
		return domain.ErrAlreadyExists
	}
	state.Version = 1
	r.items[state.ID] = state
	return nil
}

func (r *ConceptRepository) GetByID(_ context.Context, id string) (*domain.Concept, error) {
	r.mu.RLock()
	state, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrConceptNotFound
	}
	return domain.RestoreConcept(state), nil
}

func (r *ConceptRepository) Update(ctx context.Context, id string, mutate repository.ConceptMutator) (*domain.Concept, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loaded, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	base := loaded.Version()
	if err := mutate(loaded); err != nil {
		return nil, err
	}
	next := loaded.State()

	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[id]
	if !ok {
		return nil, domain.ErrConceptNotFound
	}
	if current.Version != base {
		return nil, domain.ErrVersionConflict
	}
	next.Version = base + 1
	r.items[id] = next
	return domain.RestoreConcept(next), nil
}

// Delete removes a concept. The core never deletes; tests use it to simulate races.
func (r *ConceptRepository) Delete(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}
