package repository

import (
	"context"

	"github.com/fastygo/ideaflow/domain"
)

// IdeaMutator is applied to a freshly loaded idea; see ConceptMutator.
type IdeaMutator func(i *domain.Idea) error

// IdeaRepository persists the idea aggregate and serves its read models.
// A concept owns at most one idea: Add rejects a second idea for the same concept with ErrAlreadyExists.
type IdeaRepository interface {
	Add(ctx context.Context, idea *domain.Idea) error
	GetByID(ctx context.Context, id string) (*domain.Idea, error)
	// GetByConceptID returns ErrIdeaNotFound when the concept has no idea yet.
	GetByConceptID(ctx context.Context, conceptID string) (*domain.Idea, error)
	Update(ctx context.Context, id string, mutate IdeaMutator) (*domain.Idea, error)
	GetTargetAudiencesByIdeaID(ctx context.Context, ideaID string) ([]domain.TargetAudience, error)
	// GetSocialMediaCampaignsByIdeaID returns nil without error when no content exists yet.
	GetSocialMediaCampaignsByIdeaID(ctx context.Context, ideaID string) (*domain.SocialMediaCampaigns, error)
}

// CampaignRequestGuard suppresses duplicate campaign requests while one is pending.
type CampaignRequestGuard interface {
	Acquire(ctx context.Context, ideaID string) (bool, error)
	Release(ctx context.Context, ideaID string) error
}
