package idea

import (
	"context"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/usecase"
)

func (uc *UseCase) GetIdea(ctx context.Context, ideaID string) (*domain.Idea, error) {
	return uc.ideas.GetByID(ctx, ideaID)
}

func (uc *UseCase) GetTargetAudiences(ctx context.Context, ideaID string) ([]domain.TargetAudience, error) {
	if _, err := uc.ideas.GetByID(ctx, ideaID); err != nil {
		return nil, err
	}
	return uc.ideas.GetTargetAudiencesByIdeaID(ctx, ideaID)
}

// GetSocialMediaCampaigns returns domain.ErrSocialMediaCampaignsNotFound until content is attached.
func (uc *UseCase) GetSocialMediaCampaigns(ctx context.Context, ideaID string) (domain.SocialMediaCampaigns, error) {
	if _, err := uc.ideas.GetByID(ctx, ideaID); err != nil {
		return domain.SocialMediaCampaigns{}, err
	}
	campaigns, err := uc.ideas.GetSocialMediaCampaignsByIdeaID(ctx, ideaID)
	if err != nil {
		return domain.SocialMediaCampaigns{}, err
	}
	if campaigns == nil {
		return domain.SocialMediaCampaigns{}, domain.ErrSocialMediaCampaignsNotFound
	}
	return *campaigns, nil
}

// CampaignBrief collects what campaign generation needs to know about an idea.
func (uc *UseCase) CampaignBrief(ctx context.Context, ideaID string) (usecase.CampaignBrief, error) {
	idea, err := uc.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return usecase.CampaignBrief{}, err
	}
	if idea.IsArchived() {
		return usecase.CampaignBrief{}, domain.ErrIdeaArchived
	}
	state := idea.State()
	return usecase.CampaignBrief{
		Problem:          state.Problem,
		ValueProposition: state.ValueProposition,
		TargetAudiences:  state.TargetAudiences,
		Positioning:      state.Positioning,
	}, nil
}
