package memory

import (
	"context"
	"sync"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
)

type IdeaRepository struct {
	mu    sync.RWMutex
	items map[string]domain.IdeaState
}

// NewIdeaRepository creates an empty in-memory idea store.
func NewIdeaRepository() *IdeaRepository {
	return &IdeaRepository{items: make(map[string]domain.IdeaState)}
}

var _ repository.IdeaRepository = (*IdeaRepository)(nil)

func (r *IdeaRepository) Add(_ context.Context, idea *domain.Idea) error {
	if idea == nil {
		return domain.ErrInvalidPayload
	}
	state := idea.State()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[state.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, other := range r.items {
		if other.ConceptID == state.ConceptID {
			return domain.ErrAlreadyExists
		}
	}
	state.Version = 1
	r.items[state.ID] = state
	return nil
}

func (r *IdeaRepository) GetByID(_ context.Context, id string) (*domain.Idea, error) {
	r.mu.RLock()
	state, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrIdeaNotFound
	}
	return domain.RestoreIdea(state), nil
}

func (r *IdeaRepository) GetByConceptID(_ context.Context, conceptID string) (*domain.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, state := range r.items {
		if state.ConceptID == conceptID {
			return domain.RestoreIdea(state), nil
		}
	}
	return nil, domain.ErrIdeaNotFound
}

func (r *IdeaRepository) Update(ctx context.Context, id string, mutate repository.IdeaMutator) (*domain.Idea, error) {
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
		return nil, domain.ErrIdeaNotFound
	}
	if current.Version != base {
		return nil, domain.ErrVersionConflict
	}
	next.Version = base + 1
	r.items[id] = next
	return domain.RestoreIdea(next), nil
}

func (r *IdeaRepository) GetTargetAudiencesByIdeaID(ctx context.Context, ideaID string) ([]domain.TargetAudience, error) {
	idea, err := r.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	return idea.TargetAudiences(), nil
}

func (r *IdeaRepository) GetSocialMediaCampaignsByIdeaID(ctx context.Context, ideaID string) (*domain.SocialMediaCampaigns, error) {
	idea, err := r.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	campaigns, ok := idea.SocialMediaCampaigns()
	if !ok {
		return nil, nil
	}
	return &campaigns, nil
}
