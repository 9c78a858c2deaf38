package concept

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/usecase"
)

func redact(s string) string { return strings.ReplaceAll(s, "water", "[redacted]") }

func TestEvaluationSubscriber_SkipsEvaluatedConcept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	calls := 0
	evaluator := &mockEvaluator{evaluateConceptFn: func(context.Context, string) (domain.Evaluation, error) {
		calls++
		return sampleEvaluation(), nil
	}}
	sub := NewEvaluationSubscriber(f.concepts, evaluator, repository.DefaultUpdatePolicy, nil)

	require.NoError(t, sub.Handle(context.Background(), domain.NewConceptCreated("c-1")))
	assert.Zero(t, calls)
}

func TestEvaluationSubscriber_RejectsInvalidEvaluation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	c, err := domain.NewConcept("c-1", waterProblem)
	require.NoError(t, err)
	require.NoError(t, f.concepts.Add(context.Background(), c))

	evaluator := &mockEvaluator{evaluateConceptFn: func(context.Context, string) (domain.Evaluation, error) {
		return domain.Evaluation{Status: "great"}, nil
	}}
	sub := NewEvaluationSubscriber(f.concepts, evaluator, repository.DefaultUpdatePolicy, nil)

	err = sub.Handle(context.Background(), domain.NewConceptCreated("c-1"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalid, domain.CodeOf(err))

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusDraft, stored.Status())
}

func TestEvaluationSubscriber_FailedEvaluatorResetsToDraft(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	c, err := domain.NewConcept("c-1", waterProblem)
	require.NoError(t, err)
	require.NoError(t, f.concepts.Add(context.Background(), c))

	ctx, cancel := context.WithCancel(context.Background())
	evaluator := &mockEvaluator{evaluateConceptFn: func(context.Context, string) (domain.Evaluation, error) {
		cancel()
		return domain.Evaluation{}, errors.New("model overloaded")
	}}
	sub := NewEvaluationSubscriber(f.concepts, evaluator, repository.DefaultUpdatePolicy, nil)

	err = sub.Handle(ctx, domain.NewConceptCreated("c-1"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeCollaboration, domain.CodeOf(err))

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusDraft, stored.Status(), "reset lands even after cancellation")
	assert.False(t, stored.HasEvaluation())
}

func TestTransitionSubscriber_ArchivesAndAnnounces(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	_, err := f.concepts.Update(context.Background(), "c-1", func(c *domain.Concept) error { return c.Accept("i-7") })
	require.NoError(t, err)

	var transitioned []domain.ConceptTransitioned
	usecase.On(f.bus, "recorder", func(_ context.Context, e domain.ConceptTransitioned) error {
		transitioned = append(transitioned, e)
		return nil
	})
	sub := NewTransitionSubscriber(f.concepts, f.bus, repository.DefaultUpdatePolicy, nil)

	require.NoError(t, sub.Handle(context.Background(), domain.NewConceptAccepted("c-1")))

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusArchived, stored.Status())
	require.Len(t, transitioned, 1)
	assert.Equal(t, "c-1", transitioned[0].AggregateID())
	assert.Equal(t, "i-7", transitioned[0].IdeaID)
}

func TestTransitionSubscriber_RequiresAcceptedConcept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	emitted := false
	usecase.On(f.bus, "recorder", func(context.Context, domain.ConceptTransitioned) error {
		emitted = true
		return nil
	})
	sub := NewTransitionSubscriber(f.concepts, f.bus, repository.DefaultUpdatePolicy, nil)

	err := sub.Handle(context.Background(), domain.NewConceptAccepted("c-1"))
	require.ErrorIs(t, err, domain.ErrConceptNotAccepted)
	assert.False(t, emitted)

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, stored.Status())
}

func TestAnonymizationSubscriber(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	_, err := f.concepts.Update(context.Background(), "c-1", func(c *domain.Concept) error {
		if err := c.Accept("i-1"); err != nil {
			return err
		}
		return c.Archive()
	})
	require.NoError(t, err)

	scrubs := 0
	anonymizer := usecase.AnonymizerFunc(func(s string) string {
		scrubs++
		return redact(s)
	})
	sub := NewAnonymizationSubscriber(f.concepts, anonymizer, repository.DefaultUpdatePolicy, nil)
	event := domain.NewConceptTransitioned("c-1", "i-1")

	require.NoError(t, sub.Handle(context.Background(), event))
	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, stored.Anonymized())
	assert.NotContains(t, stored.Problem().String(), "water")
	assert.Contains(t, stored.Problem().String(), "[redacted]")

	first := scrubs
	require.NoError(t, sub.Handle(context.Background(), event))
	assert.Equal(t, first, scrubs, "second run must not scrub again")
}

func TestAnonymizationSubscriber_RequiresArchivedConcept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	sub := NewAnonymizationSubscriber(f.concepts, usecase.AnonymizerFunc(redact), repository.DefaultUpdatePolicy, nil)

	err := sub.Handle(context.Background(), domain.NewConceptTransitioned("c-1", "i-1"))
	assert.ErrorIs(t, err, domain.ErrConceptNotAccepted)
}

func TestRegister_FullConceptSaga(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	evaluator := &mockEvaluator{evaluateConceptFn: func(context.Context, string) (domain.Evaluation, error) {
		return sampleEvaluation(), nil
	}}
	policy := repository.DefaultUpdatePolicy
	Register(f.bus,
		NewEvaluationSubscriber(f.concepts, evaluator, policy, nil),
		NewTransitionSubscriber(f.concepts, f.bus, policy, nil),
		NewAnonymizationSubscriber(f.concepts, usecase.AnonymizerFunc(redact), policy, nil),
	)
	assert.Empty(t, f.bus.Unsubscribed(domain.ConceptEventTypes()...))

	_, err := f.uc.EvaluateConcept(context.Background(), "c-1", waterProblem)
	require.NoError(t, err)
	accepted, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusAccepted, accepted.Status())

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusArchived, stored.Status())
	assert.True(t, stored.Anonymized())

	_, err = f.uc.GetConcept(context.Background(), "c-1")
	assert.ErrorIs(t, err, domain.ErrConceptUnavailable)
}
