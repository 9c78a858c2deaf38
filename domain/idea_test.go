package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ta-%d", n)
	}
}

func newTestIdea(t *testing.T) *Idea {
	t.Helper()
	idea, err := NewIdea("i-1", ConceptContent{
		ConceptID:       "c-1",
		Problem:         testProblem,
		MarketExistence: "Forecasting tools exist for chains only.",
		TargetAudiences: []TargetAudienceCandidate{
			{Segment: "Bakery owners", Description: "Independent shops", Challenges: []string{"Thin margins", " "}},
			{Segment: "Food rescue apps"},
		},
	}, counterIDs())
	require.NoError(t, err)
	return idea
}

func TestNewIdea(t *testing.T) {
	t.Parallel()

	idea := newTestIdea(t)
	assert.Equal(t, IdeaStatusActive, idea.Status())
	assert.Equal(t, "c-1", idea.ConceptID())

	audiences := idea.TargetAudiences()
	require.Len(t, audiences, 2)
	assert.Equal(t, "ta-1", audiences[0].ID())
	assert.Equal(t, "i-1", audiences[0].IdeaID())
	assert.Equal(t, []string{"Thin margins"}, audiences[0].Challenges())
	assert.False(t, audiences[0].Evaluated())
}

func TestNewIdea_Invalid(t *testing.T) {
	t.Parallel()

	content := ConceptContent{ConceptID: "c-1", Problem: testProblem, MarketExistence: "m",
		TargetAudiences: []TargetAudienceCandidate{{Segment: "a"}}}

	_, err := NewIdea("", content, counterIDs())
	assert.Error(t, err)

	noConcept := content
	noConcept.ConceptID = ""
	_, err = NewIdea("i-1", noConcept, counterIDs())
	assert.Error(t, err)

	noAudiences := content
	noAudiences.TargetAudiences = nil
	_, err = NewIdea("i-1", noAudiences, counterIDs())
	assert.Error(t, err)

	badSegment := content
	badSegment.TargetAudiences = []TargetAudienceCandidate{{Segment: "  "}}
	_, err = NewIdea("i-1", badSegment, counterIDs())
	assert.Equal(t, ErrCodeInvalid, CodeOf(err))
}

func TestIdea_EnrichTargetAudience(t *testing.T) {
	t.Parallel()

	idea := newTestIdea(t)
	ev := TargetAudienceEvaluation{Why: "They waste stock", PainPoints: []string{"Waste"}, TargetingStrategy: "Trade fairs"}

	require.NoError(t, idea.EnrichTargetAudience("ta-1", ev))
	assert.True(t, idea.TargetAudiences()[0].Evaluated())
	assert.False(t, idea.TargetAudiences()[1].Evaluated())

	err := idea.EnrichTargetAudience("ta-404", ev)
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))

	err = idea.EnrichTargetAudience("ta-2", TargetAudienceEvaluation{Why: "x"})
	assert.Equal(t, ErrCodeInvalid, CodeOf(err))
}

func TestIdea_SocialMediaCampaignsAreWrittenOnce(t *testing.T) {
	t.Parallel()

	idea := newTestIdea(t)
	assert.Equal(t, ErrCodeInvalid, CodeOf(idea.AttachSocialMediaCampaigns(SocialMediaCampaigns{})))

	first := SocialMediaCampaigns{Video: []VideoContent{{Platform: "youtube", Title: "Zero waste bakery"}}}
	require.NoError(t, idea.AttachSocialMediaCampaigns(first))
	got, ok := idea.SocialMediaCampaigns()
	require.True(t, ok)
	assert.False(t, got.CreatedAt.IsZero())

	assert.ErrorIs(t, idea.AttachSocialMediaCampaigns(first), ErrCampaignsExist)
}

func TestIdea_ArchivedIsReadOnly(t *testing.T) {
	t.Parallel()

	idea := newTestIdea(t)
	require.NoError(t, idea.Archive())
	assert.True(t, idea.IsArchived())

	assert.ErrorIs(t, idea.Archive(), ErrIdeaArchived)
	assert.ErrorIs(t, idea.SetValueProposition(ValueProposition{MainBenefit: "b"}), ErrIdeaArchived)
	assert.ErrorIs(t, idea.SetCompetitorAnalysis(CompetitorAnalysis{}), ErrIdeaArchived)
	assert.ErrorIs(t, idea.Position(Positioning{ProductType: ProductSaaS, Stage: StageIdea, Region: RegionGlobal}), ErrIdeaArchived)
	assert.ErrorIs(t, idea.EnrichTargetAudience("ta-1", TargetAudienceEvaluation{}), ErrIdeaArchived)
}

func TestIdea_ValuePropositionAndPositioning(t *testing.T) {
	t.Parallel()

	idea := newTestIdea(t)
	assert.Equal(t, ErrCodeInvalid, CodeOf(idea.SetValueProposition(ValueProposition{})))
	require.NoError(t, idea.SetValueProposition(ValueProposition{MainBenefit: "Less waste"}))

	assert.Error(t, idea.Position(Positioning{ProductType: "rocket", Stage: StageIdea, Region: RegionGlobal}))
	require.NoError(t, idea.Position(Positioning{ProductType: ProductSaaS, Stage: StageGrowth, Region: RegionAfrica}))

	restored := RestoreIdea(idea.State())
	assert.Equal(t, idea.State(), restored.State())
}
