// Package app assembles the concept and idea contexts, their buses and subscribers.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/repository/memory"
	"github.com/fastygo/ideaflow/usecase"
	conceptUC "github.com/fastygo/ideaflow/usecase/concept"
	ideaUC "github.com/fastygo/ideaflow/usecase/idea"
)

// CoreDeps are the adapters the two contexts run on.
type CoreDeps struct {
	Concepts            repository.ConceptRepository
	Ideas               repository.IdeaRepository
	Guard               repository.CampaignRequestGuard // in-process guard when nil
	AI                  usecase.AIService
	Anonymizer          usecase.Anonymizer
	Policy              repository.UpdatePolicy
	AudienceConcurrency int
	Logger              *zap.Logger
}

// Core holds the wired use cases and the bus of each context.
type Core struct {
	ConceptBus *usecase.Bus
	IdeaBus    *usecase.Bus
	Concepts   *conceptUC.UseCase
	Ideas      *ideaUC.UseCase

	logger *zap.Logger
}

// NewCore wires both contexts. Campaign scheduling is attached separately with
// UseScheduler because the job processor depends on the idea use case.
func NewCore(deps CoreDeps) *Core {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Policy.MaxAttempts <= 0 {
		deps.Policy = repository.DefaultUpdatePolicy
	}

	conceptBus := usecase.NewBus("concept", log)
	ideaBus := usecase.NewBus("idea", log)

	if deps.Guard == nil {
		deps.Guard = memory.NewCampaignRequestGuard(0)
	}
	ideas := ideaUC.New(deps.Ideas, nil, ideaBus, deps.Policy, log, ideaUC.WithCampaignGuard(deps.Guard))
	concepts := conceptUC.New(deps.Concepts, ideas, conceptBus, deps.Policy, log)
	ideas.SetConceptService(concepts)

	conceptUC.Register(conceptBus,
		conceptUC.NewEvaluationSubscriber(deps.Concepts, deps.AI, deps.Policy, log),
		conceptUC.NewTransitionSubscriber(deps.Concepts, conceptBus, deps.Policy, log),
		conceptUC.NewAnonymizationSubscriber(deps.Concepts, deps.Anonymizer, deps.Policy, log),
	)
	ideaUC.Register(ideaBus, ideaUC.Subscribers{
		TargetAudiences:    ideaUC.NewTargetAudienceEvaluationSubscriber(deps.Ideas, deps.AI, deps.Policy, deps.AudienceConcurrency, log),
		ValueProposition:   ideaUC.NewValuePropositionSubscriber(deps.Ideas, deps.AI, deps.Policy, log),
		CompetitorAnalysis: ideaUC.NewCompetitorAnalysisSubscriber(deps.Ideas, deps.AI, deps.Policy, log),
	})
	usecase.On(ideaBus, "campaign_request_release", ideas.OnArchived)

	return &Core{
		ConceptBus: conceptBus,
		IdeaBus:    ideaBus,
		Concepts:   concepts,
		Ideas:      ideas,
		logger:     log,
	}
}

// UseScheduler routes campaign requests to scheduler.
func (c *Core) UseScheduler(scheduler usecase.CampaignScheduler) {
	ideaUC.Register(c.IdeaBus, ideaUC.Subscribers{
		Campaigns: ideaUC.NewCampaignRequestSubscriber(scheduler),
	})
}

// CheckSubscriptions reports event types nobody listens to. In strict mode that
// is an error; otherwise it is logged.
func (c *Core) CheckSubscriptions(strict bool) error {
	missing := append(
		c.ConceptBus.Unsubscribed(domain.ConceptEventTypes()...),
		c.IdeaBus.Unsubscribed(domain.IdeaEventTypes()...)...,
	)
	if len(missing) == 0 {
		return nil
	}
	if strict {
		return fmt.Errorf("events without subscribers: %v", missing)
	}
	for _, t := range missing {
		c.logger.Warn("event has no subscribers", zap.String("event", string(t)))
	}
	return nil
}
