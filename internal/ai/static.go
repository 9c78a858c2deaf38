package ai

import (
	"context"
	"strings"
	"time"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/usecase"
)

// Static answers every port with deterministic content derived from its input.
// It backs local development and tests when no model is configured.
type Static struct{}

var _ usecase.AIService = Static{}

func (Static) EvaluateConcept(_ context.Context, problem string) (domain.Evaluation, error) {
	topic := headline(problem)
	return domain.Evaluation{
		Status:          domain.EvaluationWellDefined,
		Suggestions:     []string{"Quantify how often the problem occurs"},
		Recommendations: []string{"Interview five people affected by " + topic},
		PainPoints:      []string{topic},
		MarketExistence: "Existing tools address " + topic + " only partially.",
		TargetAudiences: []domain.TargetAudienceCandidate{
			{Segment: "Early adopters", Description: "People who feel the problem daily", Challenges: []string{"Limited time"}},
			{Segment: "Small teams", Description: "Teams that pay for workarounds today", Challenges: []string{"Tight budget"}},
		},
	}, nil
}

func (Static) EvaluateTargetAudience(_ context.Context, _, segment, description string, challenges []string) (domain.TargetAudienceEvaluation, error) {
	return domain.TargetAudienceEvaluation{
		Why:               segment + " are affected: " + description,
		PainPoints:        append([]string(nil), challenges...),
		TargetingStrategy: "Reach " + strings.ToLower(segment) + " through communities they already use",
	}, nil
}

func (Static) EvaluateValueProposition(_ context.Context, problem string, audiences []domain.TargetAudienceState) (domain.ValueProposition, error) {
	proof := make([]string, 0, len(audiences))
	for _, a := range audiences {
		proof = append(proof, "Validated with "+a.Segment)
	}
	return domain.ValueProposition{
		MainBenefit:     "Removes the effort behind " + headline(problem),
		Problem:         problem,
		Solution:        "A focused product for " + headline(problem),
		Differentiation: "Built around the audiences that feel it most",
		Proof:           proof,
	}, nil
}

func (Static) AnalyzeCompetitors(_ context.Context, problem, marketExistence string) (domain.CompetitorAnalysis, error) {
	return domain.CompetitorAnalysis{
		Competitors: []domain.Competitor{
			{Name: "Generic incumbent", Strengths: []string{"Brand"}, Weaknesses: []string{"Not specialized"}},
		},
		Opportunities: []string{"Specialize on " + headline(problem)},
		Summary:       marketExistence,
	}, nil
}

func (Static) GenerateSocialMediaCampaigns(_ context.Context, brief usecase.CampaignBrief) (domain.SocialMediaCampaigns, error) {
	topic := headline(brief.Problem)
	return domain.SocialMediaCampaigns{
		ShortForm: []domain.ShortFormContent{{Platform: "x", Hook: "Still struggling with " + topic + "?", Body: brief.Problem, Hashtags: []string{"startup"}}},
		LongForm:  []domain.LongFormContent{{Platform: "blog", Title: "Why " + topic + " matters", Body: brief.Problem}},
		Video:     []domain.VideoContent{{Platform: "youtube", Title: topic, Script: brief.Problem, Description: topic}},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// headline returns the first sentence of text, capped at 80 runes.
func headline(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?\n"); i > 0 {
		text = text[:i]
	}
	if r := []rune(text); len(r) > 80 {
		text = string(r[:80])
	}
	return text
}
