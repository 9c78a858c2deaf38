package usecase

import (
	"context"

	"github.com/fastygo/ideaflow/domain"
)

// ConceptEvaluator assesses a problem statement.
type ConceptEvaluator interface {
	EvaluateConcept(ctx context.Context, problem string) (domain.Evaluation, error)
}

// TargetAudienceEvaluator explains why an audience cares and how to reach it.
type TargetAudienceEvaluator interface {
	EvaluateTargetAudience(ctx context.Context, problem, segment, description string, challenges []string) (domain.TargetAudienceEvaluation, error)
}

// ValuePropositionEvaluator derives a value proposition from an idea's problem and audiences.
type ValuePropositionEvaluator interface {
	EvaluateValueProposition(ctx context.Context, problem string, audiences []domain.TargetAudienceState) (domain.ValueProposition, error)
}

// CompetitorAnalyzer maps the existing market of an idea.
type CompetitorAnalyzer interface {
	AnalyzeCompetitors(ctx context.Context, problem, marketExistence string) (domain.CompetitorAnalysis, error)
}

// CampaignBrief is everything campaign generation reads from an idea.
type CampaignBrief struct {
	Problem          string
	ValueProposition *domain.ValueProposition
	TargetAudiences  []domain.TargetAudienceState
	Positioning      *domain.Positioning
}

// CampaignGenerator writes social media content for an idea.
type CampaignGenerator interface {
	GenerateSocialMediaCampaigns(ctx context.Context, brief CampaignBrief) (domain.SocialMediaCampaigns, error)
}

// AIService is the full AI capability; each consumer depends on the narrow port it needs.
type AIService interface {
	ConceptEvaluator
	TargetAudienceEvaluator
	ValuePropositionEvaluator
	CompetitorAnalyzer
	CampaignGenerator
}

// IdeaService is the idea context as seen from the concept context.
type IdeaService interface {
	Reserve(ctx context.Context, ideaID, conceptID string) (domain.ReservationResult, error)
}

// ConceptService is the concept context as seen from the idea context.
type ConceptService interface {
	ContentForReservation(ctx context.Context, conceptID string) (domain.ConceptLookup, error)
}

// Anonymizer removes personal and contact data from free text.
type Anonymizer interface {
	Scrub(text string) string
}

// AnonymizerFunc adapts a plain function to Anonymizer.
type AnonymizerFunc func(string) string

func (f AnonymizerFunc) Scrub(text string) string { return f(text) }

// CampaignScheduler hands campaign generation to the background job system.
type CampaignScheduler interface {
	ScheduleCampaigns(ctx context.Context, ideaID string) error
}
