package transport

import (
	"time"

	"github.com/fastygo/ideaflow/domain"
)

type ConceptView struct {
	ID         string             `json:"id"`
	Problem    string             `json:"problem"`
	Status     string             `json:"status"`
	Evaluation *domain.Evaluation `json:"evaluation,omitempty"`
	IdeaID     string             `json:"idea_id,omitempty"`
	Version    int                `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func NewConceptView(c *domain.Concept) ConceptView {
	s := c.State()
	return ConceptView{
		ID:         s.ID,
		Problem:    s.Problem,
		Status:     string(s.Status),
		Evaluation: s.Evaluation,
		IdeaID:     s.IdeaID,
		Version:    s.Version,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

type AcceptConceptResponse struct {
	ConceptID string `json:"concept_id"`
	IdeaID    string `json:"idea_id"`
	Status    string `json:"status"`
}

type TargetAudienceView struct {
	ID                string   `json:"id"`
	Segment           string   `json:"segment"`
	Description       string   `json:"description"`
	Challenges        []string `json:"challenges"`
	Why               string   `json:"why,omitempty"`
	PainPoints        []string `json:"pain_points,omitempty"`
	TargetingStrategy string   `json:"targeting_strategy,omitempty"`
	Evaluated         bool     `json:"evaluated"`
}

func NewTargetAudienceViews(audiences []domain.TargetAudience) []TargetAudienceView {
	out := make([]TargetAudienceView, 0, len(audiences))
	for _, a := range audiences {
		s := a.State()
		out = append(out, TargetAudienceView{
			ID:                s.ID,
			Segment:           s.Segment,
			Description:       s.Description,
			Challenges:        s.Challenges,
			Why:               s.Why,
			PainPoints:        s.PainPoints,
			TargetingStrategy: s.TargetingStrategy,
			Evaluated:         a.Evaluated(),
		})
	}
	return out
}

type IdeaView struct {
	ID                    string                     `json:"id"`
	ConceptID             string                     `json:"concept_id"`
	Problem               string                     `json:"problem"`
	MarketExistence       string                     `json:"market_existence"`
	Status                string                     `json:"status"`
	TargetAudiences       []TargetAudienceView       `json:"target_audiences"`
	ValueProposition      *domain.ValueProposition   `json:"value_proposition,omitempty"`
	CompetitorAnalysis    *domain.CompetitorAnalysis `json:"competitor_analysis,omitempty"`
	Positioning           *domain.Positioning        `json:"positioning,omitempty"`
	HasSocialMediaContent bool                       `json:"has_social_media_campaigns"`
	Version               int                        `json:"version"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

func NewIdeaView(i *domain.Idea) IdeaView {
	s := i.State()
	return IdeaView{
		ID:                    s.ID,
		ConceptID:             s.ConceptID,
		Problem:               s.Problem,
		MarketExistence:       s.MarketExistence,
		Status:                string(s.Status),
		TargetAudiences:       NewTargetAudienceViews(i.TargetAudiences()),
		ValueProposition:      s.ValueProposition,
		CompetitorAnalysis:    s.CompetitorAnalysis,
		Positioning:           s.Positioning,
		HasSocialMediaContent: s.SocialMediaCampaigns != nil,
		Version:               s.Version,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

type CampaignRequestResponse struct {
	IdeaID    string `json:"idea_id"`
	Requested bool   `json:"requested"`
}
