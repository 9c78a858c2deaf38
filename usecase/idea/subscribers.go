package idea

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/logger"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/usecase"
)

// DefaultAudienceConcurrency bounds parallel audience evaluations per idea.
const DefaultAudienceConcurrency = 4

// TargetAudienceEvaluationSubscriber enriches every audience of a new idea.
// Audiences are evaluated concurrently and stored in a single write.
type TargetAudienceEvaluationSubscriber struct {
	ideas       repository.IdeaRepository
	evaluator   usecase.TargetAudienceEvaluator
	policy      repository.UpdatePolicy
	concurrency int
	logger      *zap.Logger
}

func NewTargetAudienceEvaluationSubscriber(
	ideas repository.IdeaRepository,
	evaluator usecase.TargetAudienceEvaluator,
	policy repository.UpdatePolicy,
	concurrency int,
	log *zap.Logger,
) *TargetAudienceEvaluationSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = DefaultAudienceConcurrency
	}
	return &TargetAudienceEvaluationSubscriber{
		ideas:       ideas,
		evaluator:   evaluator,
		policy:      policy,
		concurrency: concurrency,
		logger:      log,
	}
}

func (s *TargetAudienceEvaluationSubscriber) Handle(ctx context.Context, event domain.IdeaCreated) error {
	ideaID := event.AggregateID()
	log := logger.WithRequestID(ctx, s.logger).With(zap.String("idea_id", ideaID))

	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea.IsArchived() {
		log.Debug("idea archived, skipping audience evaluation")
		return nil
	}
	audiences, err := s.ideas.GetTargetAudiencesByIdeaID(ctx, ideaID)
	if err != nil {
		return err
	}

	pending := make([]domain.TargetAudience, 0, len(audiences))
	for _, a := range audiences {
		if !a.Evaluated() {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		log.Debug("target audiences already evaluated")
		return nil
	}

	problem := idea.Problem().String()
	results := make([]domain.TargetAudienceEvaluation, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for n, audience := range pending {
		g.Go(func() error {
			ev, err := s.evaluator.EvaluateTargetAudience(gctx, problem,
				audience.Segment().String(), audience.Description(), audience.Challenges())
			if err != nil {
				return fmt.Errorf("audience %s: %w", audience.ID(), err)
			}
			results[n] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.WrapError(domain.ErrCodeCollaboration, "evaluate target audiences", err)
	}

	if _, err := s.policy.UpdateIdea(ctx, s.ideas, ideaID, func(i *domain.Idea) error {
		for n, audience := range pending {
			if err := i.EnrichTargetAudience(audience.ID(), results[n]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("store audience evaluations: %w", err)
	}
	log.Info("target audiences evaluated", zap.Int("count", len(pending)))
	return nil
}

// ValuePropositionSubscriber derives the value proposition once audiences are known.
type ValuePropositionSubscriber struct {
	ideas     repository.IdeaRepository
	evaluator usecase.ValuePropositionEvaluator
	policy    repository.UpdatePolicy
	logger    *zap.Logger
}

func NewValuePropositionSubscriber(
	ideas repository.IdeaRepository,
	evaluator usecase.ValuePropositionEvaluator,
	policy repository.UpdatePolicy,
	log *zap.Logger,
) *ValuePropositionSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &ValuePropositionSubscriber{ideas: ideas, evaluator: evaluator, policy: policy, logger: log}
}

func (s *ValuePropositionSubscriber) Handle(ctx context.Context, event domain.IdeaCreated) error {
	ideaID := event.AggregateID()
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if _, ok := idea.ValueProposition(); ok || idea.IsArchived() {
		return nil
	}

	state := idea.State()
	vp, err := s.evaluator.EvaluateValueProposition(ctx, state.Problem, state.TargetAudiences)
	if err != nil {
		return domain.WrapError(domain.ErrCodeCollaboration, "evaluate value proposition", err)
	}
	if _, err := s.policy.UpdateIdea(ctx, s.ideas, ideaID, func(i *domain.Idea) error {
		return i.SetValueProposition(vp)
	}); err != nil {
		return fmt.Errorf("store value proposition: %w", err)
	}
	logger.WithRequestID(ctx, s.logger).Info("value proposition stored", zap.String("idea_id", ideaID))
	return nil
}

// CompetitorAnalysisSubscriber maps the competitors of a new idea.
type CompetitorAnalysisSubscriber struct {
	ideas    repository.IdeaRepository
	analyzer usecase.CompetitorAnalyzer
	policy   repository.UpdatePolicy
	logger   *zap.Logger
}

func NewCompetitorAnalysisSubscriber(
	ideas repository.IdeaRepository,
	analyzer usecase.CompetitorAnalyzer,
	policy repository.UpdatePolicy,
	log *zap.Logger,
) *CompetitorAnalysisSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompetitorAnalysisSubscriber{ideas: ideas, analyzer: analyzer, policy: policy, logger: log}
}

func (s *CompetitorAnalysisSubscriber) Handle(ctx context.Context, event domain.IdeaCreated) error {
	ideaID := event.AggregateID()
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if _, ok := idea.CompetitorAnalysis(); ok || idea.IsArchived() {
		return nil
	}

	analysis, err := s.analyzer.AnalyzeCompetitors(ctx, idea.Problem().String(), idea.MarketExistence())
	if err != nil {
		return domain.WrapError(domain.ErrCodeCollaboration, "analyze competitors", err)
	}
	if _, err := s.policy.UpdateIdea(ctx, s.ideas, ideaID, func(i *domain.Idea) error {
		return i.SetCompetitorAnalysis(analysis)
	}); err != nil {
		return fmt.Errorf("store competitor analysis: %w", err)
	}
	logger.WithRequestID(ctx, s.logger).Info("competitor analysis stored",
		zap.String("idea_id", ideaID),
		zap.Int("competitors", len(analysis.Competitors)))
	return nil
}

// CampaignRequestSubscriber hands campaign requests to the background scheduler.
type CampaignRequestSubscriber struct {
	scheduler usecase.CampaignScheduler
}

func NewCampaignRequestSubscriber(scheduler usecase.CampaignScheduler) *CampaignRequestSubscriber {
	return &CampaignRequestSubscriber{scheduler: scheduler}
}

func (s *CampaignRequestSubscriber) Handle(ctx context.Context, event domain.SocialMediaCampaignsRequested) error {
	return s.scheduler.ScheduleCampaigns(ctx, event.AggregateID())
}

// Subscribers groups the idea context subscribers for registration.
type Subscribers struct {
	TargetAudiences    *TargetAudienceEvaluationSubscriber
	ValueProposition   *ValuePropositionSubscriber
	CompetitorAnalysis *CompetitorAnalysisSubscriber
	Campaigns          *CampaignRequestSubscriber
}

// Register wires the subscribers onto bus. Audience evaluation runs first so the
// value proposition sees enriched audiences.
func Register(bus *usecase.Bus, subs Subscribers) {
	if subs.TargetAudiences != nil {
		usecase.On(bus, "target_audience_evaluation", subs.TargetAudiences.Handle)
	}
	if subs.ValueProposition != nil {
		usecase.On(bus, "value_proposition", subs.ValueProposition.Handle)
	}
	if subs.CompetitorAnalysis != nil {
		usecase.On(bus, "competitor_analysis", subs.CompetitorAnalysis.Handle)
	}
	if subs.Campaigns != nil {
		usecase.On(bus, "campaign_scheduler", subs.Campaigns.Handle)
	}
}
