package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fastygo/ideaflow/domain"
	"github.com/fastygo/ideaflow/usecase"
)

const systemInstruction = `You are a startup analyst. Answer with a single JSON object that matches the requested shape exactly. Do not add commentary.`

func conceptPrompt(problem string) string {
	return fmt.Sprintf(`Evaluate the following problem statement.

Problem:
%s

Return JSON:
{
  "status": "well-defined" | "requires_changes" | "not-well-defined",
  "suggestions": [string],
  "recommendations": [string],
  "pain_points": [string],
  "market_existence": string,
  "target_audiences": [{"segment": string, "description": string, "challenges": [string]}]
}`, problem)
}

func audiencePrompt(problem, segment, description string, challenges []string) string {
	return fmt.Sprintf(`Explain why this audience cares about the problem and how to reach it.

Problem:
%s

Segment: %s
Description: %s
Challenges:
%s

Return JSON:
{"why": string, "pain_points": [string], "targeting_strategy": string}`, problem, segment, description, bullets(challenges))
}

func valuePropositionPrompt(problem string, audiences []domain.TargetAudienceState) string {
	var b strings.Builder
	for _, a := range audiences {
		fmt.Fprintf(&b, "- %s: %s\n", a.Segment, a.Description)
		if a.Why != "" {
			fmt.Fprintf(&b, "  why: %s\n", a.Why)
		}
	}
	return fmt.Sprintf(`Write the value proposition for a product that solves the problem for these audiences.

Problem:
%s

Audiences:
%s
Return JSON:
{"main_benefit": string, "problem": string, "solution": string, "differentiation": string, "proof": [string]}`, problem, b.String())
}

func competitorPrompt(problem, marketExistence string) string {
	return fmt.Sprintf(`Analyze the competitors already addressing this problem.

Problem:
%s

Market:
%s

Return JSON:
{"competitors": [{"name": string, "website": string, "strengths": [string], "weaknesses": [string]}], "opportunities": [string], "summary": string}`, problem, marketExistence)
}

func campaignPrompt(brief usecase.CampaignBrief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write social media content for the product below.\n\nProblem:\n%s\n", brief.Problem)
	if brief.ValueProposition != nil {
		fmt.Fprintf(&b, "\nValue proposition:\n%s\n", compact(brief.ValueProposition))
	}
	if len(brief.TargetAudiences) > 0 {
		b.WriteString("\nAudiences:\n")
		for _, a := range brief.TargetAudiences {
			fmt.Fprintf(&b, "- %s", a.Segment)
			if a.TargetingStrategy != "" {
				fmt.Fprintf(&b, " (reach: %s)", a.TargetingStrategy)
			}
			b.WriteByte('\n')
		}
	}
	if p := brief.Positioning; p != nil {
		fmt.Fprintf(&b, "\nProduct type: %s\nStage: %s\nRegion: %s\n", p.ProductType, p.Stage, p.Region)
	}
	b.WriteString(`
Return JSON:
{
  "short_form": [{"platform": string, "hook": string, "body": string, "hashtags": [string]}],
  "long_form": [{"platform": string, "title": string, "body": string}],
  "video": [{"platform": string, "title": string, "script": string, "description": string}]
}`)
	return b.String()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "- none listed"
	}
	return "- " + strings.Join(items, "\n- ")
}

func compact(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
