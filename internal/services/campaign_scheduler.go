package services

import (
	"context"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/internal/infrastructure/jobqueue"
	"github.com/fastygo/ideaflow/usecase"
)

// CampaignScheduler turns campaign requests into durable jobs.
type CampaignScheduler struct {
	processor *CampaignProcessor
}

func NewCampaignScheduler(processor *CampaignProcessor) *CampaignScheduler {
	return &CampaignScheduler{processor: processor}
}

func (s *CampaignScheduler) ScheduleCampaigns(ctx context.Context, ideaID string) error {
	if s.processor == nil || ideaID == "" {
		return domain.ErrInvalidPayload
	}
	return s.processor.Schedule(ctx, jobqueue.CampaignJob(ideaID))
}

var _ usecase.CampaignScheduler = (*CampaignScheduler)(nil)
