package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/pkg/logger"
)

func TestBus_EmitWithoutSubscribersIsLoggedNoOp(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	bus := NewBus("concept", zap.New(core))

	err := bus.Emit(context.Background(), domain.NewConceptCreated("c-1"))
	require.NoError(t, err)

	entries := logs.FilterMessage("no subscribers for event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "concept.created", entries[0].ContextMap()["event"])
	assert.Equal(t, "c-1", entries[0].ContextMap()["aggregate_id"])
}

func TestBus_SubscribersRunInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus("idea", nil)
	var calls []string
	On(bus, "a", func(_ context.Context, e domain.IdeaCreated) error {
		calls = append(calls, "a:"+e.AggregateID())
		return nil
	})
	On(bus, "b", func(_ context.Context, e domain.IdeaCreated) error {
		calls = append(calls, "b:"+e.AggregateID())
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), domain.NewIdeaCreated("i-1")))
	assert.Equal(t, []string{"a:i-1", "b:i-1"}, calls)
	assert.Equal(t, []string{"a", "b"}, bus.Subscribers(domain.EventIdeaCreated))
}

func TestBus_FailureStopsLaterSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus("idea", nil)
	boom := errors.New("boom")
	secondCalled := false
	On(bus, "first", func(context.Context, domain.IdeaCreated) error { return boom })
	On(bus, "second", func(context.Context, domain.IdeaCreated) error {
		secondCalled = true
		return nil
	})

	err := bus.Emit(context.Background(), domain.NewIdeaCreated("i-1"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "first on idea.created")
	assert.False(t, secondCalled)
}

func TestBus_OnlyMatchingTypeIsDelivered(t *testing.T) {
	t.Parallel()

	bus := NewBus("concept", nil)
	var accepted int
	On(bus, "accepted", func(context.Context, domain.ConceptAccepted) error {
		accepted++
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), domain.NewConceptCreated("c-1")))
	require.NoError(t, bus.Emit(context.Background(), domain.NewConceptAccepted("c-1")))
	assert.Equal(t, 1, accepted)
}

func TestBus_NestedEmitDuringDelivery(t *testing.T) {
	t.Parallel()

	bus := NewBus("concept", nil)
	var transitioned string
	On(bus, "transition", func(ctx context.Context, e domain.ConceptAccepted) error {
		return bus.Emit(ctx, domain.NewConceptTransitioned(e.AggregateID(), "i-9"))
	})
	On(bus, "anonymize", func(_ context.Context, e domain.ConceptTransitioned) error {
		transitioned = e.IdeaID
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), domain.NewConceptAccepted("c-1")))
	assert.Equal(t, "i-9", transitioned)
}

func TestBus_Unsubscribed(t *testing.T) {
	t.Parallel()

	bus := NewBus("concept", nil)
	On(bus, "evaluation", func(context.Context, domain.ConceptCreated) error { return nil })

	missing := bus.Unsubscribed(domain.ConceptEventTypes()...)
	assert.Equal(t, []domain.EventType{domain.EventConceptAccepted, domain.EventConceptTransitioned}, missing)
}

func TestBus_ErrorLogCarriesRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewBus("idea", zap.New(core))
	On(bus, "failing", func(context.Context, domain.IdeaArchived) error { return errors.New("down") })

	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	require.Error(t, bus.Emit(ctx, domain.NewIdeaArchived("i-1")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "failing", entries[0].ContextMap()["subscriber"])
}

func TestBus_EmitNilEvent(t *testing.T) {
	t.Parallel()

	bus := NewBus("idea", nil)
	assert.ErrorIs(t, bus.Emit(context.Background(), nil), domain.ErrInvalidPayload)
}
