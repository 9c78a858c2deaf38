package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fastygo/ideaflow/domain"
)

// UpdatePolicy decides how often a conflicting read-modify-write is retried.
type UpdatePolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultUpdatePolicy is used when no policy is configured.
var DefaultUpdatePolicy = UpdatePolicy{MaxAttempts: 3, Backoff: 20 * time.Millisecond}

// Run calls fn until it succeeds, fails with anything but a version conflict,
// or the attempts are exhausted. Backoff grows linearly per attempt.
func (p UpdatePolicy) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		if attempt == attempts || p.Backoff <= 0 {
			continue
		}
		timer := time.NewTimer(time.Duration(attempt) * p.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}

// UpdateConcept runs repo.Update under the policy.
func (p UpdatePolicy) UpdateConcept(ctx context.Context, repo ConceptRepository, id string, mutate ConceptMutator) (*domain.Concept, error) {
	var out *domain.Concept
	err := p.Run(ctx, func(ctx context.Context) error {
		updated, err := repo.Update(ctx, id, mutate)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	return out, err
}

// UpdateIdea runs repo.Update under the policy.
func (p UpdatePolicy) UpdateIdea(ctx context.Context, repo IdeaRepository, id string, mutate IdeaMutator) (*domain.Idea, error) {
	var out *domain.Idea
	err := p.Run(ctx, func(ctx context.Context) error {
		updated, err := repo.Update(ctx, id, mutate)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	return out, err
}
