package domain

import "time"

// IdeaStatus tracks whether an idea is still being worked on.
type IdeaStatus string

const (
	IdeaStatusActive   IdeaStatus = "active"
	IdeaStatusArchived IdeaStatus = "archived"
)

// ConceptContent is the snapshot of a concept handed to the idea context at reservation time.
type ConceptContent struct {
	ConceptID       string
	Problem         string
	MarketExistence string
	TargetAudiences []TargetAudienceCandidate
}

// Complete reports whether the content carries everything an idea needs.
func (c ConceptContent) Complete() bool {
	return c.Problem != "" && c.MarketExistence != "" && len(c.TargetAudiences) > 0
}

// Positioning describes the product and market of an idea.
type Positioning struct {
	ProductType ProductType `json:"product_type"`
	Stage       Stage       `json:"stage"`
	Region      Region      `json:"region"`
}

// IdeaState is the flat representation used for persistence and read models.
type IdeaState struct {
	ID                   string                `json:"id"`
	ConceptID            string                `json:"concept_id"`
	Problem              string                `json:"problem"`
	MarketExistence      string                `json:"market_existence"`
	Status               IdeaStatus            `json:"status"`
	TargetAudiences      []TargetAudienceState `json:"target_audiences"`
	ValueProposition     *ValueProposition     `json:"value_proposition,omitempty"`
	CompetitorAnalysis   *CompetitorAnalysis   `json:"competitor_analysis,omitempty"`
	SocialMediaCampaigns *SocialMediaCampaigns `json:"social_media_campaigns,omitempty"`
	Positioning          *Positioning          `json:"positioning,omitempty"`
	Meta
}

// Idea is a validated problem owned by the idea context.
type Idea struct {
	id                   string
	conceptID            string
	problem              Problem
	marketExistence      string
	status               IdeaStatus
	targetAudiences      []TargetAudience
	valueProposition     *ValueProposition
	competitorAnalysis   *CompetitorAnalysis
	socialMediaCampaigns *SocialMediaCampaigns
	positioning          *Positioning
	meta                 Meta
}

// NewIdea snapshots concept content into a new idea. newAudienceID supplies audience identities.
func NewIdea(id string, content ConceptContent, newAudienceID func() string) (*Idea, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	if err := validateID("concept_id", content.ConceptID); err != nil {
		return nil, err
	}
	if !content.Complete() {
		return nil, Invalidf("content", "problem, market existence and at least one target audience are required")
	}
	idea := &Idea{
		id:              id,
		conceptID:       content.ConceptID,
		problem:         redactedProblem(content.Problem),
		marketExistence: content.MarketExistence,
		status:          IdeaStatusActive,
	}
	for _, candidate := range content.TargetAudiences {
		audience, err := newTargetAudience(newAudienceID(), id, candidate)
		if err != nil {
			return nil, err
		}
		idea.targetAudiences = append(idea.targetAudiences, audience)
	}
	idea.meta.Touch()
	return idea, nil
}

// RestoreIdea rehydrates an idea from storage.
func RestoreIdea(s IdeaState) *Idea {
	idea := &Idea{
		id:              s.ID,
		conceptID:       s.ConceptID,
		problem:         redactedProblem(s.Problem),
		marketExistence: s.MarketExistence,
		status:          s.Status,
		meta:            s.Meta,
	}
	for _, a := range s.TargetAudiences {
		idea.targetAudiences = append(idea.targetAudiences, RestoreTargetAudience(a))
	}
	if s.ValueProposition != nil {
		vp := s.ValueProposition.clone()
		idea.valueProposition = &vp
	}
	if s.CompetitorAnalysis != nil {
		ca := s.CompetitorAnalysis.clone()
		idea.competitorAnalysis = &ca
	}
	if s.SocialMediaCampaigns != nil {
		smc := s.SocialMediaCampaigns.clone()
		idea.socialMediaCampaigns = &smc
	}
	if s.Positioning != nil {
		p := *s.Positioning
		idea.positioning = &p
	}
	return idea
}

func (i *Idea) ID() string              { return i.id }
func (i *Idea) ConceptID() string       { return i.conceptID }
func (i *Idea) Problem() Problem        { return i.problem }
func (i *Idea) MarketExistence() string { return i.marketExistence }
func (i *Idea) Status() IdeaStatus      { return i.status }
func (i *Idea) Version() int            { return i.meta.Version }
func (i *Idea) UpdatedAt() time.Time    { return i.meta.UpdatedAt }
func (i *Idea) IsArchived() bool        { return i.status == IdeaStatusArchived }

// TargetAudiences returns copies of the owned audiences.
func (i *Idea) TargetAudiences() []TargetAudience {
	out := make([]TargetAudience, len(i.targetAudiences))
	for n, a := range i.targetAudiences {
		out[n] = a.clone()
	}
	return out
}

func (i *Idea) ValueProposition() (ValueProposition, bool) {
	if i.valueProposition == nil {
		return ValueProposition{}, false
	}
	return i.valueProposition.clone(), true
}

func (i *Idea) CompetitorAnalysis() (CompetitorAnalysis, bool) {
	if i.competitorAnalysis == nil {
		return CompetitorAnalysis{}, false
	}
	return i.competitorAnalysis.clone(), true
}

func (i *Idea) SocialMediaCampaigns() (SocialMediaCampaigns, bool) {
	if i.socialMediaCampaigns == nil {
		return SocialMediaCampaigns{}, false
	}
	return i.socialMediaCampaigns.clone(), true
}

func (i *Idea) Positioning() (Positioning, bool) {
	if i.positioning == nil {
		return Positioning{}, false
	}
	return *i.positioning, true
}

// State returns a detached copy of the idea.
func (i *Idea) State() IdeaState {
	s := IdeaState{
		ID:              i.id,
		ConceptID:       i.conceptID,
		Problem:         i.problem.String(),
		MarketExistence: i.marketExistence,
		Status:          i.status,
		Meta:            i.meta,
	}
	for _, a := range i.targetAudiences {
		s.TargetAudiences = append(s.TargetAudiences, a.State())
	}
	if vp, ok := i.ValueProposition(); ok {
		s.ValueProposition = &vp
	}
	if ca, ok := i.CompetitorAnalysis(); ok {
		s.CompetitorAnalysis = &ca
	}
	if smc, ok := i.SocialMediaCampaigns(); ok {
		s.SocialMediaCampaigns = &smc
	}
	if p, ok := i.Positioning(); ok {
		s.Positioning = &p
	}
	return s
}

func (i *Idea) ensureActive() error {
	if i.status == IdeaStatusArchived {
		return ErrIdeaArchived
	}
	return nil
}

// EnrichTargetAudience stores the evaluation of one owned audience.
func (i *Idea) EnrichTargetAudience(audienceID string, ev TargetAudienceEvaluation) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	for n := range i.targetAudiences {
		if i.targetAudiences[n].id != audienceID {
			continue
		}
		if err := i.targetAudiences[n].enrich(ev); err != nil {
			return err
		}
		i.meta.Touch()
		return nil
	}
	return NewError(ErrCodeNotFound, "target audience "+audienceID+" not found")
}

// SetValueProposition records the value proposition.
func (i *Idea) SetValueProposition(vp ValueProposition) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if err := vp.validate(); err != nil {
		return err
	}
	vp = vp.clone()
	i.valueProposition = &vp
	i.meta.Touch()
	return nil
}

// SetCompetitorAnalysis records the competitor analysis.
func (i *Idea) SetCompetitorAnalysis(ca CompetitorAnalysis) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	ca = ca.clone()
	i.competitorAnalysis = &ca
	i.meta.Touch()
	return nil
}

// AttachSocialMediaCampaigns stores generated campaigns. Existing content is never replaced.
func (i *Idea) AttachSocialMediaCampaigns(c SocialMediaCampaigns) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if i.socialMediaCampaigns != nil {
		return ErrCampaignsExist
	}
	if c.Empty() {
		return Invalidf("social_media_campaigns", "must contain at least one piece of content")
	}
	c = c.clone()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	i.socialMediaCampaigns = &c
	i.meta.Touch()
	return nil
}

// Position sets product type, stage and region.
func (i *Idea) Position(p Positioning) error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	if _, err := ParseProductType(string(p.ProductType)); err != nil {
		return err
	}
	if _, err := ParseStage(string(p.Stage)); err != nil {
		return err
	}
	if _, err := ParseRegion(string(p.Region)); err != nil {
		return err
	}
	i.positioning = &p
	i.meta.Touch()
	return nil
}

// Archive is terminal.
func (i *Idea) Archive() error {
	if err := i.ensureActive(); err != nil {
		return err
	}
	i.status = IdeaStatusArchived
	i.meta.Touch()
	return nil
}
