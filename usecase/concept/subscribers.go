package concept

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/logger"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/usecase"
)

// EvaluationSubscriber asks the AI service to assess a newly created concept.
type EvaluationSubscriber struct {
	concepts  repository.ConceptRepository
	evaluator usecase.ConceptEvaluator
	policy    repository.UpdatePolicy
	logger    *zap.Logger
}

func NewEvaluationSubscriber(
	concepts repository.ConceptRepository,
	evaluator usecase.ConceptEvaluator,
	policy repository.UpdatePolicy,
	log *zap.Logger,
) *EvaluationSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &EvaluationSubscriber{concepts: concepts, evaluator: evaluator, policy: policy, logger: log}
}

func (s *EvaluationSubscriber) Handle(ctx context.Context, event domain.ConceptCreated) error {
	id := event.AggregateID()
	log := logger.WithRequestID(ctx, s.logger).With(zap.String("concept_id", id))

	current, err := s.concepts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.HasEvaluation() || current.IsAccepted() {
		log.Debug("concept already evaluated, skipping")
		return nil
	}

	if _, err := s.policy.UpdateConcept(ctx, s.concepts, id, func(c *domain.Concept) error {
		return c.StartEvaluation()
	}); err != nil {
		return fmt.Errorf("start evaluation: %w", err)
	}

	evaluation, updated, err := s.evaluate(ctx, id, current.Problem().String())
	if err != nil {
		// The caller's context may already be done; the reset must still land.
		if _, resetErr := s.policy.UpdateConcept(context.WithoutCancel(ctx), s.concepts, id, func(c *domain.Concept) error {
			return c.AbortEvaluation()
		}); resetErr != nil {
			log.Warn("failed to reset concept to draft", zap.Error(resetErr))
		}
		return err
	}
	log.Info("concept evaluated",
		zap.String("status", string(evaluation.Status)),
		zap.Int("target_audiences", len(evaluation.TargetAudiences)),
		zap.Int("version", updated.Version()))
	return nil
}

func (s *EvaluationSubscriber) evaluate(ctx context.Context, id, problem string) (domain.Evaluation, *domain.Concept, error) {
	evaluation, err := s.evaluator.EvaluateConcept(ctx, problem)
	if err != nil {
		return domain.Evaluation{}, nil, domain.WrapError(domain.ErrCodeCollaboration, "evaluate concept", err)
	}
	updated, err := s.policy.UpdateConcept(ctx, s.concepts, id, func(c *domain.Concept) error {
		return c.Evaluate(evaluation)
	})
	if err != nil {
		return domain.Evaluation{}, nil, fmt.Errorf("store evaluation: %w", err)
	}
	return evaluation, updated, nil
}

// TransitionSubscriber archives an accepted concept and announces the hand-over to its idea.
type TransitionSubscriber struct {
	concepts repository.ConceptRepository
	events   usecase.Emitter
	policy   repository.UpdatePolicy
	logger   *zap.Logger
}

func NewTransitionSubscriber(
	concepts repository.ConceptRepository,
	events usecase.Emitter,
	policy repository.UpdatePolicy,
	log *zap.Logger,
) *TransitionSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransitionSubscriber{concepts: concepts, events: events, policy: policy, logger: log}
}

func (s *TransitionSubscriber) Handle(ctx context.Context, event domain.ConceptAccepted) error {
	id := event.AggregateID()

	var ideaID string
	if _, err := s.policy.UpdateConcept(ctx, s.concepts, id, func(c *domain.Concept) error {
		ideaID = c.IdeaID()
		return c.Archive()
	}); err != nil {
		return fmt.Errorf("archive concept %s: %w", id, err)
	}

	logger.WithRequestID(ctx, s.logger).Info("concept archived",
		zap.String("concept_id", id),
		zap.String("idea_id", ideaID))
	return s.events.Emit(ctx, domain.NewConceptTransitioned(id, ideaID))
}

// AnonymizationSubscriber scrubs personal data from an archived concept.
type AnonymizationSubscriber struct {
	concepts   repository.ConceptRepository
	anonymizer usecase.Anonymizer
	policy     repository.UpdatePolicy
	logger     *zap.Logger
}

func NewAnonymizationSubscriber(
	concepts repository.ConceptRepository,
	anonymizer usecase.Anonymizer,
	policy repository.UpdatePolicy,
	log *zap.Logger,
) *AnonymizationSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnonymizationSubscriber{concepts: concepts, anonymizer: anonymizer, policy: policy, logger: log}
}

func (s *AnonymizationSubscriber) Handle(ctx context.Context, event domain.ConceptTransitioned) error {
	id := event.AggregateID()
	updated, err := s.policy.UpdateConcept(ctx, s.concepts, id, func(c *domain.Concept) error {
		return c.Anonymize(s.anonymizer.Scrub)
	})
	if err != nil {
		return fmt.Errorf("anonymize concept %s: %w", id, err)
	}
	logger.WithRequestID(ctx, s.logger).Info("concept anonymized",
		zap.String("concept_id", id),
		zap.Int("version", updated.Version()))
	return nil
}

// Register wires the concept subscribers onto bus in saga order.
func Register(bus *usecase.Bus, evaluation *EvaluationSubscriber, transition *TransitionSubscriber, anonymization *AnonymizationSubscriber) {
	usecase.On(bus, "concept_evaluation", evaluation.Handle)
	usecase.On(bus, "concept_transition", transition.Handle)
	usecase.On(bus, "concept_anonymization", anonymization.Handle)
}
