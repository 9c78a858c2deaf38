package concept

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/repository"
	"github.com/fastygo/ideaflow/repository/memory"
	"github.com/fastygo/ideaflow/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waterProblem = "Office workers forget to drink enough water during the day and end up tired and unfocused by the afternoon."

type mockEvaluator struct {
	evaluateConceptFn func(ctx context.Context, problem string) (domain.Evaluation, error)
}

func (m *mockEvaluator) EvaluateConcept(ctx context.Context, problem string) (domain.Evaluation, error) {
	return m.evaluateConceptFn(ctx, problem)
}

type mockIdeaService struct {
	reserveFn func(ctx context.Context, ideaID, conceptID string) (domain.ReservationResult, error)
	calls     int
}

func (m *mockIdeaService) Reserve(ctx context.Context, ideaID, conceptID string) (domain.ReservationResult, error) {
	m.calls++
	return m.reserveFn(ctx, ideaID, conceptID)
}

func acceptingIdeas() *mockIdeaService {
	return &mockIdeaService{
		reserveFn: func(_ context.Context, ideaID, conceptID string) (domain.ReservationResult, error) {
			return domain.ReservationAccepted{IdeaID: ideaID, ConceptID: conceptID}, nil
		},
	}
}

func sampleEvaluation() domain.Evaluation {
	return domain.Evaluation{
		Status:          domain.EvaluationWellDefined,
		Suggestions:     []string{"Narrow down to remote workers"},
		PainPoints:      []string{"Afternoon fatigue"},
		MarketExistence: "Several hydration apps exist, mostly consumer focused.",
		TargetAudiences: []domain.TargetAudienceCandidate{
			{Segment: "Remote developers", Description: "Work long hours at a desk", Challenges: []string{"No routine"}},
			{Segment: "Office managers", Description: "Care about team wellbeing"},
		},
	}
}

type fixture struct {
	concepts *memory.ConceptRepository
	bus      *usecase.Bus
	uc       *UseCase
	ideas    *mockIdeaService
}

func newFixture(t *testing.T, ideas *mockIdeaService) *fixture {
	t.Helper()
	concepts := memory.NewConceptRepository()
	bus := usecase.NewBus("concept", nil)
	if ideas == nil {
		ideas = acceptingIdeas()
	}
	return &fixture{
		concepts: concepts,
		bus:      bus,
		ideas:    ideas,
		uc:       New(concepts, ideas, bus, repository.DefaultUpdatePolicy, nil),
	}
}

func (f *fixture) seedEvaluated(t *testing.T, id string) {
	t.Helper()
	c, err := domain.NewConcept(id, waterProblem)
	require.NoError(t, err)
	require.NoError(t, c.Evaluate(sampleEvaluation()))
	require.NoError(t, f.concepts.Add(context.Background(), c))
}

func TestUseCase_EvaluateConcept(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		problem string
		wantErr domain.ErrorCode
	}{
		{name: "valid problem", problem: waterProblem},
		{name: "surrounding whitespace is trimmed", problem: "  " + waterProblem + "\n"},
		{name: "too short", problem: "Too short", wantErr: domain.ErrCodeInvalid},
		{name: "empty", problem: "   ", wantErr: domain.ErrCodeInvalid},
		{name: "too long", problem: strings.Repeat("a", domain.ProblemMaxLength+1), wantErr: domain.ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			var emitted []string
			usecase.On(f.bus, "recorder", func(_ context.Context, e domain.ConceptCreated) error {
				emitted = append(emitted, e.AggregateID())
				return nil
			})

			c, err := f.uc.EvaluateConcept(context.Background(), "c-1", tt.problem)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, domain.CodeOf(err))
				assert.Empty(t, emitted)
				_, getErr := f.concepts.GetByID(context.Background(), "c-1")
				assert.ErrorIs(t, getErr, domain.ErrConceptNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ConceptStatusDraft, c.Status())
			assert.Equal(t, waterProblem, c.Problem().String())
			assert.Equal(t, []string{"c-1"}, emitted)
		})
	}
}

func TestUseCase_EvaluateConcept_RunsEvaluationSubscriber(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	evaluator := &mockEvaluator{evaluateConceptFn: func(_ context.Context, problem string) (domain.Evaluation, error) {
		assert.Equal(t, waterProblem, problem)
		return sampleEvaluation(), nil
	}}
	usecase.On(f.bus, "evaluation", NewEvaluationSubscriber(f.concepts, evaluator, repository.DefaultUpdatePolicy, nil).Handle)

	draft, err := f.uc.EvaluateConcept(context.Background(), "c-1", waterProblem)
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusDraft, draft.Status())

	stored, err := f.uc.GetConcept(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, stored.Status())
	ev, ok := stored.Evaluation()
	require.True(t, ok)
	assert.Len(t, ev.TargetAudiences, 2)
}

func TestUseCase_EvaluateConcept_SubscriberFailureSurfaces(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	evaluator := &mockEvaluator{evaluateConceptFn: func(context.Context, string) (domain.Evaluation, error) {
		return domain.Evaluation{}, errors.New("model unavailable")
	}}
	usecase.On(f.bus, "evaluation", NewEvaluationSubscriber(f.concepts, evaluator, repository.DefaultUpdatePolicy, nil).Handle)

	_, err := f.uc.EvaluateConcept(context.Background(), "c-1", waterProblem)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeCollaboration, domain.CodeOf(err))

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.False(t, stored.HasEvaluation())
}

func TestUseCase_AcceptConcept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seedEvaluated(t, "c-1")
	var accepted []string
	usecase.On(f.bus, "recorder", func(_ context.Context, e domain.ConceptAccepted) error {
		accepted = append(accepted, e.AggregateID())
		return nil
	})

	c, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusAccepted, c.Status())
	assert.Equal(t, "i-1", c.IdeaID())
	assert.Equal(t, []string{"c-1"}, accepted)
	assert.Equal(t, 1, f.ideas.calls)
}

func TestUseCase_ReevaluateConcept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	c, err := domain.NewConcept("c-1", waterProblem)
	require.NoError(t, err)
	require.NoError(t, f.concepts.Add(context.Background(), c))
	f.seedEvaluated(t, "c-2")

	var announced []string
	usecase.On(f.bus, "evaluation", func(_ context.Context, e domain.ConceptCreated) error {
		announced = append(announced, e.AggregateID())
		_, err := f.concepts.Update(context.Background(), e.AggregateID(), func(c *domain.Concept) error {
			return c.Evaluate(sampleEvaluation())
		})
		return err
	})

	got, err := f.uc.ReevaluateConcept(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, got.Status())

	got, err = f.uc.ReevaluateConcept(context.Background(), "c-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, got.Status())
	assert.Equal(t, []string{"c-1"}, announced, "evaluated concepts are not announced again")

	_, err = f.uc.ReevaluateConcept(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrConceptNotFound)
}

func TestUseCase_AcceptConcept_AdoptsExistingIdea(t *testing.T) {
	t.Parallel()

	ideas := &mockIdeaService{reserveFn: func(_ context.Context, _, conceptID string) (domain.ReservationResult, error) {
		return domain.ReservationAccepted{IdeaID: "i-1", ConceptID: conceptID, Replayed: true}, nil
	}}
	f := newFixture(t, ideas)
	f.seedEvaluated(t, "c-1")

	c, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-2")
	require.NoError(t, err)
	assert.Equal(t, "i-1", c.IdeaID())
}

func TestUseCase_AcceptConcept_RejectedReservationLeavesConcept(t *testing.T) {
	t.Parallel()

	ideas := &mockIdeaService{reserveFn: func(context.Context, string, string) (domain.ReservationResult, error) {
		return domain.Rejected{Reason: domain.ReasonExpired, Message: "reservation window closed"}, nil
	}}
	f := newFixture(t, ideas)
	f.seedEvaluated(t, "c-1")
	emitted := false
	usecase.On(f.bus, "recorder", func(context.Context, domain.ConceptAccepted) error {
		emitted = true
		return nil
	})

	_, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReservationRejected)
	var rejected domain.Rejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, domain.ReasonExpired, rejected.Reason)
	assert.False(t, emitted)

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, stored.Status())
	assert.Empty(t, stored.IdeaID())
}

func TestUseCase_AcceptConcept_ReservationError(t *testing.T) {
	t.Parallel()

	ideas := &mockIdeaService{reserveFn: func(context.Context, string, string) (domain.ReservationResult, error) {
		return nil, errors.New("idea store down")
	}}
	f := newFixture(t, ideas)
	f.seedEvaluated(t, "c-1")

	_, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeCollaboration, domain.CodeOf(err))

	stored, err := f.concepts.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ConceptStatusEvaluated, stored.Status())
}

func TestUseCase_AcceptConcept_Preconditions(t *testing.T) {
	t.Parallel()

	t.Run("unknown concept", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		_, err := f.uc.AcceptConcept(context.Background(), "missing", "i-1")
		assert.ErrorIs(t, err, domain.ErrConceptNotFound)
		assert.Zero(t, f.ideas.calls)
	})

	t.Run("draft concept", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		c, err := domain.NewConcept("c-1", waterProblem)
		require.NoError(t, err)
		require.NoError(t, f.concepts.Add(context.Background(), c))

		_, err = f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
		assert.ErrorIs(t, err, domain.ErrConceptNotEvaluated)
		assert.Zero(t, f.ideas.calls)
	})

	t.Run("second acceptance", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.seedEvaluated(t, "c-1")
		_, err := f.uc.AcceptConcept(context.Background(), "c-1", "i-1")
		require.NoError(t, err)

		_, err = f.uc.AcceptConcept(context.Background(), "c-1", "i-2")
		assert.ErrorIs(t, err, domain.ErrConceptAlreadyAccepted)
		assert.Equal(t, 1, f.ideas.calls)
	})
}

func TestUseCase_GetConcept_ArchivedIsUnavailable(t *testing.T) {
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

	_, err = f.uc.GetConcept(context.Background(), "c-1")
	assert.ErrorIs(t, err, domain.ErrConceptUnavailable)
	assert.Equal(t, domain.ErrCodeNotFound, domain.CodeOf(err))
}

func TestUseCase_ContentForReservation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		seed       func(t *testing.T, f *fixture)
		wantReason domain.RejectionReason
	}{
		{
			name:       "missing concept",
			seed:       func(*testing.T, *fixture) {},
			wantReason: domain.ReasonConceptNotFound,
		},
		{
			name: "not evaluated",
			seed: func(t *testing.T, f *fixture) {
				c, err := domain.NewConcept("c-1", waterProblem)
				require.NoError(t, err)
				require.NoError(t, f.concepts.Add(context.Background(), c))
			},
			wantReason: domain.ReasonNotEvaluated,
		},
		{
			name: "evaluation without audiences",
			seed: func(t *testing.T, f *fixture) {
				c, err := domain.NewConcept("c-1", waterProblem)
				require.NoError(t, err)
				ev := sampleEvaluation()
				ev.TargetAudiences = nil
				require.NoError(t, c.Evaluate(ev))
				require.NoError(t, f.concepts.Add(context.Background(), c))
			},
			wantReason: domain.ReasonMissingContent,
		},
		{
			name: "already accepted",
			seed: func(t *testing.T, f *fixture) {
				f.seedEvaluated(t, "c-1")
				_, err := f.concepts.Update(context.Background(), "c-1", func(c *domain.Concept) error {
					return c.Accept("i-1")
				})
				require.NoError(t, err)
			},
			wantReason: domain.ReasonAlreadyAccepted,
		},
		{
			name: "evaluated",
			seed: func(t *testing.T, f *fixture) { f.seedEvaluated(t, "c-1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			tt.seed(t, f)

			lookup, err := f.uc.ContentForReservation(context.Background(), "c-1")
			require.NoError(t, err)
			if tt.wantReason != "" {
				rejected, ok := lookup.(domain.Rejected)
				require.True(t, ok, "got %T", lookup)
				assert.Equal(t, tt.wantReason, rejected.Reason)
				return
			}
			found, ok := lookup.(domain.ConceptFound)
			require.True(t, ok, "got %T", lookup)
			assert.Equal(t, "c-1", found.Content.ConceptID)
			assert.Equal(t, waterProblem, found.Content.Problem)
			assert.Len(t, found.Content.TargetAudiences, 2)
		})
	}
}
