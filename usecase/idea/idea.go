// Package idea implements the idea context: reservations coming from the concept
// context, idea enrichment and social media campaign requests.
package idea

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/logger"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/usecase"
)

type UseCase struct {
	ideas    repository.IdeaRepository
	concepts usecase.ConceptService
	events   usecase.Emitter
	guard    repository.CampaignRequestGuard
	policy   repository.UpdatePolicy
	newID    func() string
	logger   *zap.Logger
}

// Option customises a UseCase.
type Option func(*UseCase)

// WithAudienceIDs overrides how target audience identities are generated.
func WithAudienceIDs(fn func() string) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.newID = fn
		}
	}
}

// WithCampaignGuard suppresses duplicate campaign requests while one is pending.
func WithCampaignGuard(guard repository.CampaignRequestGuard) Option {
	return func(uc *UseCase) { uc.guard = guard }
}

func New(
	ideas repository.IdeaRepository,
	concepts usecase.ConceptService,
	events usecase.Emitter,
	policy repository.UpdatePolicy,
	log *zap.Logger,
	opts ...Option,
) *UseCase {
	if log == nil {
		log = zap.NewNop()
	}
	uc := &UseCase{
		ideas:    ideas,
		concepts: concepts,
		events:   events,
		policy:   policy,
		newID:    uuid.NewString,
		logger:   log.With(zap.String("context", "idea")),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SetConceptService breaks the construction cycle between the two contexts.
func (uc *UseCase) SetConceptService(concepts usecase.ConceptService) {
	uc.concepts = concepts
}

var _ usecase.IdeaService = (*UseCase)(nil)

// Reserve is the idea context entry point used by the concept context.
func (uc *UseCase) Reserve(ctx context.Context, ideaID, conceptID string) (domain.ReservationResult, error) {
	return uc.MakeReservation(ctx, ideaID, conceptID)
}

// MakeReservation creates ideaID from the concept's content. Replaying a reservation
// for a concept that already owns an idea is accepted with that idea's id, whatever
// ideaID was asked for, and re-announces the idea.
func (uc *UseCase) MakeReservation(ctx context.Context, ideaID, conceptID string) (domain.ReservationResult, error) {
	log := logger.WithRequestID(ctx, uc.logger).With(
		zap.String("idea_id", ideaID),
		zap.String("concept_id", conceptID))

	if ideaID == "" || conceptID == "" {
		return domain.Rejected{Reason: domain.ReasonInvalidRequest, Message: "idea id and concept id are required"}, nil
	}

	existing, err := uc.ideas.GetByID(ctx, ideaID)
	switch {
	case err == nil:
		if existing.ConceptID() != conceptID {
			return domain.Rejected{Reason: domain.ReasonIdeaExists, Message: "idea " + ideaID + " belongs to another concept"}, nil
		}
		return uc.replay(ctx, log, existing)
	case !errors.Is(err, domain.ErrIdeaNotFound):
		return nil, err
	}

	// A concept owns one idea. An earlier attempt may have created it under another id
	// before the concept side gave up, e.g. when enrichment failed.
	if owned, err := uc.ideas.GetByConceptID(ctx, conceptID); err == nil {
		return uc.replay(ctx, log, owned)
	} else if !errors.Is(err, domain.ErrIdeaNotFound) {
		return nil, err
	}

	if uc.concepts == nil {
		return nil, domain.NewError(domain.ErrCodeInternal, "concept service is not configured")
	}
	lookup, err := uc.concepts.ContentForReservation(ctx, conceptID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeCollaboration, "fetch concept content", err)
	}

	var content domain.ConceptContent
	switch l := lookup.(type) {
	case domain.ConceptFound:
		content = l.Content
	case domain.Rejected:
		log.Warn("concept refused reservation", zap.String("reason", string(l.Reason)))
		return l, nil
	default:
		return nil, fmt.Errorf("unexpected concept lookup %T", lookup)
	}
	content.ConceptID = conceptID
	if !content.Complete() {
		return domain.Rejected{Reason: domain.ReasonMissingContent, Message: "concept content is incomplete"}, nil
	}

	idea, err := domain.NewIdea(ideaID, content, uc.newID)
	if err != nil {
		return nil, err
	}
	if err := uc.ideas.Add(ctx, idea); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			if owned, lookupErr := uc.ideas.GetByConceptID(ctx, conceptID); lookupErr == nil {
				return uc.replay(ctx, log, owned)
			}
			return domain.Rejected{Reason: domain.ReasonIdeaExists, Message: "idea " + ideaID + " was created concurrently"}, nil
		}
		return nil, fmt.Errorf("add idea %s: %w", ideaID, err)
	}

	if err := uc.events.Emit(ctx, domain.NewIdeaCreated(ideaID)); err != nil {
		return nil, fmt.Errorf("make reservation %s: %w", ideaID, err)
	}
	log.Info("idea created", zap.Int("target_audiences", len(content.TargetAudiences)))
	return domain.ReservationAccepted{IdeaID: ideaID, ConceptID: conceptID}, nil
}

// replay accepts a reservation that already produced idea and re-announces it so
// unfinished enrichment resumes. The result carries the id the concept must adopt.
func (uc *UseCase) replay(ctx context.Context, log *zap.Logger, idea *domain.Idea) (domain.ReservationResult, error) {
	log.Info("reservation replayed", zap.String("reserved_idea_id", idea.ID()))
	if err := uc.events.Emit(ctx, domain.NewIdeaCreated(idea.ID())); err != nil {
		return nil, fmt.Errorf("make reservation %s: %w", idea.ID(), err)
	}
	return domain.ReservationAccepted{IdeaID: idea.ID(), ConceptID: idea.ConceptID(), Replayed: true}, nil
}

// Archive closes an idea for further changes.
func (uc *UseCase) Archive(ctx context.Context, ideaID string) (*domain.Idea, error) {
	archived, err := uc.policy.UpdateIdea(ctx, uc.ideas, ideaID, func(i *domain.Idea) error {
		return i.Archive()
	})
	if err != nil {
		return nil, err
	}
	if err := uc.events.Emit(ctx, domain.NewIdeaArchived(ideaID)); err != nil {
		return nil, fmt.Errorf("archive idea %s: %w", ideaID, err)
	}
	return archived, nil
}

// PositionIdea records product type, stage and region for an idea.
func (uc *UseCase) PositionIdea(ctx context.Context, ideaID, productType, stage, region string) (*domain.Idea, error) {
	pt, err := domain.ParseProductType(productType)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	rg, err := domain.ParseRegion(region)
	if err != nil {
		return nil, err
	}
	positioning := domain.Positioning{ProductType: pt, Stage: st, Region: rg}
	return uc.policy.UpdateIdea(ctx, uc.ideas, ideaID, func(i *domain.Idea) error {
		return i.Position(positioning)
	})
}

// RequestSocialMediaCampaigns starts campaign generation. It returns false when
// content already exists or a request for the idea is still pending.
func (uc *UseCase) RequestSocialMediaCampaigns(ctx context.Context, ideaID string) (bool, error) {
	log := logger.WithRequestID(ctx, uc.logger).With(zap.String("idea_id", ideaID))

	idea, err := uc.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return false, err
	}
	if idea.IsArchived() {
		return false, domain.ErrIdeaArchived
	}

	existing, err := uc.ideas.GetSocialMediaCampaignsByIdeaID(ctx, ideaID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		log.Info("social media campaigns already exist")
		return false, nil
	}

	if uc.guard != nil {
		acquired, err := uc.guard.Acquire(ctx, ideaID)
		if err != nil {
			return false, fmt.Errorf("acquire campaign request: %w", err)
		}
		if !acquired {
			log.Info("social media campaigns already requested")
			return false, nil
		}
	}

	if err := uc.events.Emit(ctx, domain.NewSocialMediaCampaignsRequested(ideaID)); err != nil {
		uc.releaseGuard(ctx, ideaID)
		return false, fmt.Errorf("request social media campaigns %s: %w", ideaID, err)
	}
	return true, nil
}

// AttachSocialMediaCampaigns stores generated content. Content that is already
// attached is kept and the call succeeds.
func (uc *UseCase) AttachSocialMediaCampaigns(ctx context.Context, ideaID string, campaigns domain.SocialMediaCampaigns) error {
	_, err := uc.policy.UpdateIdea(ctx, uc.ideas, ideaID, func(i *domain.Idea) error {
		return i.AttachSocialMediaCampaigns(campaigns)
	})
	if errors.Is(err, domain.ErrCampaignsExist) {
		uc.logger.Info("social media campaigns already attached", zap.String("idea_id", ideaID))
		err = nil
	}
	if err != nil {
		return err
	}
	uc.releaseGuard(ctx, ideaID)
	return nil
}

// CancelSocialMediaCampaignsRequest frees the pending request so it can be retried.
func (uc *UseCase) CancelSocialMediaCampaignsRequest(ctx context.Context, ideaID string) {
	uc.releaseGuard(ctx, ideaID)
}

func (uc *UseCase) releaseGuard(ctx context.Context, ideaID string) {
	if uc.guard == nil {
		return
	}
	if err := uc.guard.Release(ctx, ideaID); err != nil {
		uc.logger.Warn("release campaign request failed", zap.String("idea_id", ideaID), zap.Error(err))
	}
}

// OnArchived drops any pending campaign request of an archived idea.
func (uc *UseCase) OnArchived(ctx context.Context, event domain.IdeaArchived) error {
	uc.releaseGuard(ctx, event.AggregateID())
	return nil
}
