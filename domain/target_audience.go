package domain

// TargetAudienceEvaluation is the enrichment produced for one audience.
type TargetAudienceEvaluation struct {
	Why               string   `json:"why"`
	PainPoints        []string `json:"pain_points"`
	TargetingStrategy string   `json:"targeting_strategy"`
}

// TargetAudienceState is the flat representation of a TargetAudience.
type TargetAudienceState struct {
	ID                string   `json:"id"`
	IdeaID            string   `json:"idea_id"`
	Segment           string   `json:"segment"`
	Description       string   `json:"description"`
	Challenges        []string `json:"challenges"`
	Why               string   `json:"why,omitempty"`
	PainPoints        []string `json:"pain_points,omitempty"`
	TargetingStrategy string   `json:"targeting_strategy,omitempty"`
}

// TargetAudience is an audience owned by an idea.
type TargetAudience struct {
	id                string
	ideaID            string
	segment           Persona
	description       string
	challenges        []string
	why               string
	painPoints        []string
	targetingStrategy Strategy
}

func newTargetAudience(id, ideaID string, c TargetAudienceCandidate) (TargetAudience, error) {
	if err := validateID("target_audience_id", id); err != nil {
		return TargetAudience{}, err
	}
	segment, err := NewPersona(c.Segment)
	if err != nil {
		return TargetAudience{}, err
	}
	return TargetAudience{
		id:          id,
		ideaID:      ideaID,
		segment:     segment,
		description: c.Description,
		challenges:  cleanStrings(c.Challenges),
	}, nil
}

// RestoreTargetAudience rehydrates an audience read from storage.
func RestoreTargetAudience(s TargetAudienceState) TargetAudience {
	return TargetAudience{
		id:                s.ID,
		ideaID:            s.IdeaID,
		segment:           Persona{value: s.Segment},
		description:       s.Description,
		challenges:        cloneStrings(s.Challenges),
		why:               s.Why,
		painPoints:        cloneStrings(s.PainPoints),
		targetingStrategy: Strategy{value: s.TargetingStrategy},
	}
}

func (a TargetAudience) ID() string           { return a.id }
func (a TargetAudience) IdeaID() string       { return a.ideaID }
func (a TargetAudience) Segment() Persona     { return a.segment }
func (a TargetAudience) Description() string  { return a.description }
func (a TargetAudience) Challenges() []string { return cloneStrings(a.challenges) }

// Evaluated reports whether the audience has been enriched.
func (a TargetAudience) Evaluated() bool {
	return a.why != "" && !a.targetingStrategy.IsZero()
}

func (a TargetAudience) State() TargetAudienceState {
	return TargetAudienceState{
		ID:                a.id,
		IdeaID:            a.ideaID,
		Segment:           a.segment.String(),
		Description:       a.description,
		Challenges:        cloneStrings(a.challenges),
		Why:               a.why,
		PainPoints:        cloneStrings(a.painPoints),
		TargetingStrategy: a.targetingStrategy.String(),
	}
}

func (a *TargetAudience) enrich(ev TargetAudienceEvaluation) error {
	strategy, err := NewStrategy(ev.TargetingStrategy)
	if err != nil {
		return err
	}
	if ev.Why == "" {
		return Invalidf("why", "must not be empty")
	}
	a.why = ev.Why
	a.painPoints = cleanStrings(ev.PainPoints)
	a.targetingStrategy = strategy
	return nil
}

func (a TargetAudience) clone() TargetAudience {
	a.challenges = cloneStrings(a.challenges)
	a.painPoints = cloneStrings(a.painPoints)
	return a
}
