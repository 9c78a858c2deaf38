package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/usecase"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare", raw: `{"why":"a"}`, want: "a"},
		{name: "fenced", raw: "```json\n{\"why\":\"b\"}\n```", want: "b"},
		{name: "plain fence", raw: "```\n{\"why\":\"c\"}\n```", want: "c"},
		{name: "leading prose", raw: "Here it is: {\"why\":\"d\"} done", want: "d"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "garbage", raw: "not json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out domain.TargetAudienceEvaluation
			err := decodeJSON(tt.raw, &out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Why)
		})
	}
}

func TestService_EvaluateConcept(t *testing.T) {
	var gotPrompt string
	svc := NewService(GeneratorFunc(func(_ context.Context, system, prompt string) (string, error) {
		assert.Equal(t, systemInstruction, system)
		gotPrompt = prompt
		return `{"status":"Well-Defined","market_existence":"crowded","target_audiences":[{"segment":"Parents","description":"busy","challenges":["time"]}]}`, nil
	}), time.Second, nil)

	ev, err := svc.EvaluateConcept(context.Background(), "people forget to drink water")
	require.NoError(t, err)
	assert.Equal(t, domain.EvaluationWellDefined, ev.Status)
	assert.Equal(t, "crowded", ev.MarketExistence)
	require.Len(t, ev.TargetAudiences, 1)
	assert.Equal(t, []string{"time"}, ev.TargetAudiences[0].Challenges)
	assert.Contains(t, gotPrompt, "people forget to drink water")
}

func TestService_EvaluateConceptRejectsUnknownStatus(t *testing.T) {
	svc := NewService(GeneratorFunc(func(context.Context, string, string) (string, error) {
		return `{"status":"maybe"}`, nil
	}), 0, nil)

	_, err := svc.EvaluateConcept(context.Background(), "p")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestService_PropagatesGeneratorErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(GeneratorFunc(func(context.Context, string, string) (string, error) {
		return "", boom
	}), 0, nil)

	_, err := svc.AnalyzeCompetitors(context.Background(), "p", "m")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "analyze_competitors")
}

func TestService_AppliesTimeout(t *testing.T) {
	svc := NewService(GeneratorFunc(func(ctx context.Context, _, _ string) (string, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		return `{"main_benefit":"x"}`, nil
	}), time.Minute, nil)

	vp, err := svc.EvaluateValueProposition(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", vp.MainBenefit)
}

func TestService_GenerateCampaignsUsesPositioning(t *testing.T) {
	var gotPrompt string
	svc := NewService(GeneratorFunc(func(_ context.Context, _, prompt string) (string, error) {
		gotPrompt = prompt
		return `{"short_form":[{"platform":"x","body":"hi"}]}`, nil
	}), 0, nil)

	brief := usecase.CampaignBrief{
		Problem:          "hydration",
		ValueProposition: &domain.ValueProposition{MainBenefit: "healthier days"},
		TargetAudiences:  []domain.TargetAudienceState{{Segment: "Office workers", TargetingStrategy: "LinkedIn"}},
		Positioning:      &domain.Positioning{ProductType: domain.ProductMobileApp, Stage: domain.StageMVP, Region: domain.RegionEurope},
	}
	campaigns, err := svc.GenerateSocialMediaCampaigns(context.Background(), brief)
	require.NoError(t, err)
	assert.False(t, campaigns.Empty())
	assert.False(t, campaigns.CreatedAt.IsZero())

	assert.Contains(t, gotPrompt, "healthier days")
	assert.Contains(t, gotPrompt, "Office workers (reach: LinkedIn)")
	assert.Contains(t, gotPrompt, "Product type: mobile_app")
	assert.Contains(t, gotPrompt, "Region: europe")
}

func TestStatic_ProducesValidDomainValues(t *testing.T) {
	ctx := context.Background()
	problem := "Office workers forget to drink enough water during the day. They end up tired and unfocused."

	ev, err := Static{}.EvaluateConcept(ctx, problem)
	require.NoError(t, err)
	concept, err := domain.NewConcept("c-1", problem)
	require.NoError(t, err)
	require.NoError(t, concept.StartEvaluation())
	require.NoError(t, concept.Evaluate(ev))

	audience, err := Static{}.EvaluateTargetAudience(ctx, problem, "Early adopters", "daily", []string{"time"})
	require.NoError(t, err)
	assert.NotEmpty(t, audience.TargetingStrategy)

	campaigns, err := Static{}.GenerateSocialMediaCampaigns(ctx, usecase.CampaignBrief{Problem: problem})
	require.NoError(t, err)
	assert.Equal(t, "Still struggling with Office workers forget to drink enough water during the day?", campaigns.ShortForm[0].Hook)
}
