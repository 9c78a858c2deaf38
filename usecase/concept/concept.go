// Package concept implements the concept context: submitting problem statements,
// accepting them into ideas, and the subscribers that move a concept to its end state.
package concept

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/usecase"
)

type UseCase struct {
	concepts repository.ConceptRepository
	ideas    usecase.IdeaService
	events   usecase.Emitter
	policy   repository.UpdatePolicy
	logger   *zap.Logger
}

func New(
	concepts repository.ConceptRepository,
	ideas usecase.IdeaService,
	events usecase.Emitter,
	policy repository.UpdatePolicy,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		concepts: concepts,
		ideas:    ideas,
		events:   events,
		policy:   policy,
		logger:   logger.With(zap.String("context", "concept")),
	}
}

var _ usecase.ConceptService = (*UseCase)(nil)

// EvaluateConcept stores a new draft concept and announces it for evaluation.
// The returned concept is the draft as persisted, before any subscriber ran.
func (uc *UseCase) EvaluateConcept(ctx context.Context, id, problem string) (*domain.Concept, error) {
	concept, err := domain.NewConcept(id, problem)
	if err != nil {
		return nil, err
	}
	if err := uc.concepts.Add(ctx, concept); err != nil {
		return nil, fmt.Errorf("add concept %s: %w", id, err)
	}
	draft := domain.RestoreConcept(concept.State())

	if err := uc.events.Emit(ctx, domain.NewConceptCreated(id)); err != nil {
		return nil, fmt.Errorf("evaluate concept %s: %w", id, err)
	}
	uc.logger.Info("concept created", zap.String("concept_id", id))
	return draft, nil
}

// ReevaluateConcept announces a concept without an evaluation again, e.g. after
// the evaluator failed. Concepts that already hold an evaluation are returned as is.
func (uc *UseCase) ReevaluateConcept(ctx context.Context, id string) (*domain.Concept, error) {
	current, err := uc.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsAccepted() {
		return nil, domain.ErrConceptAlreadyAccepted
	}
	if current.HasEvaluation() {
		return current, nil
	}

	if err := uc.events.Emit(ctx, domain.NewConceptCreated(id)); err != nil {
		return nil, fmt.Errorf("reevaluate concept %s: %w", id, err)
	}
	return uc.concepts.GetByID(ctx, id)
}

// AcceptConcept reserves newIdeaID in the idea context and only then marks the concept accepted.
// A rejected or failed reservation leaves the concept untouched. When the idea context already
// holds an idea for this concept, the concept adopts that idea instead of newIdeaID.
func (uc *UseCase) AcceptConcept(ctx context.Context, id, newIdeaID string) (*domain.Concept, error) {
	current, err := uc.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.CanAccept(); err != nil {
		return nil, err
	}

	result, err := uc.ideas.Reserve(ctx, newIdeaID, id)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeCollaboration, "reserve idea", err)
	}
	ideaID := newIdeaID
	switch r := result.(type) {
	case domain.ReservationAccepted:
		ideaID = r.IdeaID
		uc.logger.Info("idea reserved",
			zap.String("concept_id", id),
			zap.String("idea_id", r.IdeaID),
			zap.Bool("replayed", r.Replayed))
	case domain.Rejected:
		uc.logger.Warn("idea reservation rejected",
			zap.String("concept_id", id),
			zap.String("idea_id", newIdeaID),
			zap.String("reason", string(r.Reason)),
			zap.String("message", r.Message))
		return nil, r.Err()
	default:
		return nil, fmt.Errorf("unexpected reservation result %T", result)
	}

	accepted, err := uc.policy.UpdateConcept(ctx, uc.concepts, id, func(c *domain.Concept) error {
		return c.Accept(ideaID)
	})
	if err != nil {
		return nil, fmt.Errorf("accept concept %s: %w", id, err)
	}

	if err := uc.events.Emit(ctx, domain.NewConceptAccepted(id)); err != nil {
		return nil, fmt.Errorf("accept concept %s: %w", id, err)
	}
	return accepted, nil
}

// GetConcept returns a concept that is still available for reading.
func (uc *UseCase) GetConcept(ctx context.Context, id string) (*domain.Concept, error) {
	concept, err := uc.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !concept.Available() {
		return nil, domain.ErrConceptUnavailable
	}
	return concept, nil
}

// ContentForReservation serves the idea context's request for a concept snapshot.
func (uc *UseCase) ContentForReservation(ctx context.Context, conceptID string) (domain.ConceptLookup, error) {
	concept, err := uc.concepts.GetByID(ctx, conceptID)
	if errors.Is(err, domain.ErrConceptNotFound) {
		return domain.Rejected{Reason: domain.ReasonConceptNotFound, Message: "concept " + conceptID + " does not exist"}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case !concept.Available():
		return domain.Rejected{Reason: domain.ReasonConceptUnavailable, Message: "concept is archived"}, nil
	case concept.IsAccepted():
		return domain.Rejected{Reason: domain.ReasonAlreadyAccepted, Message: "concept already belongs to idea " + concept.IdeaID()}, nil
	case !concept.HasEvaluation():
		return domain.Rejected{Reason: domain.ReasonNotEvaluated, Message: "concept has not been evaluated"}, nil
	}

	content, err := concept.ReservationContent()
	if err != nil {
		return nil, err
	}
	if !content.Complete() {
		return domain.Rejected{Reason: domain.ReasonMissingContent, Message: "evaluation lacks market existence or target audiences"}, nil
	}
	return domain.ConceptFound{Content: content}, nil
}
