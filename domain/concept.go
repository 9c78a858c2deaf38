package domain

import "time"

// ConceptStatus tracks a concept through evaluation and acceptance.
type ConceptStatus string

const (
	ConceptStatusDraft      ConceptStatus = "draft"
	ConceptStatusEvaluating ConceptStatus = "evaluating"
	ConceptStatusEvaluated  ConceptStatus = "evaluated"
	ConceptStatusAccepted   ConceptStatus = "accepted"
	ConceptStatusArchived   ConceptStatus = "archived"
)

// TargetAudienceCandidate is an audience suggested by concept evaluation.
type TargetAudienceCandidate struct {
	Segment     string   `json:"segment"`
	Description string   `json:"description"`
	Challenges  []string `json:"challenges"`
}

// Evaluation is the AI assessment attached to a concept.
type Evaluation struct {
	Status          EvaluationStatus          `json:"status"`
	Suggestions     []string                  `json:"suggestions"`
	Recommendations []string                  `json:"recommendations"`
	PainPoints      []string                  `json:"pain_points"`
	MarketExistence string                    `json:"market_existence"`
	TargetAudiences []TargetAudienceCandidate `json:"target_audiences"`
}

func (e Evaluation) validate() error {
	if _, err := ParseEvaluationStatus(string(e.Status)); err != nil {
		return err
	}
	for _, audience := range e.TargetAudiences {
		if _, err := NewPersona(audience.Segment); err != nil {
			return err
		}
	}
	return nil
}

func (e Evaluation) clone() Evaluation {
	out := e
	out.Suggestions = cloneStrings(e.Suggestions)
	out.Recommendations = cloneStrings(e.Recommendations)
	out.PainPoints = cloneStrings(e.PainPoints)
	if e.TargetAudiences != nil {
		out.TargetAudiences = make([]TargetAudienceCandidate, len(e.TargetAudiences))
		for i, a := range e.TargetAudiences {
			a.Challenges = cloneStrings(a.Challenges)
			out.TargetAudiences[i] = a
		}
	}
	return out
}

// ConceptState is the flat representation used for persistence and read models.
type ConceptState struct {
	ID         string        `json:"id"`
	Problem    string        `json:"problem"`
	Status     ConceptStatus `json:"status"`
	Evaluation *Evaluation   `json:"evaluation,omitempty"`
	IdeaID     string        `json:"idea_id,omitempty"`
	Anonymized bool          `json:"anonymized"`
	Meta
}

// Concept is a problem statement pending evaluation and acceptance.
type Concept struct {
	id         string
	problem    Problem
	status     ConceptStatus
	evaluation *Evaluation
	ideaID     string
	anonymized bool
	meta       Meta
}

// NewConcept creates a draft concept.
func NewConcept(id, rawProblem string) (*Concept, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	problem, err := NewProblem(rawProblem)
	if err != nil {
		return nil, err
	}
	c := &Concept{id: id, problem: problem, status: ConceptStatusDraft}
	c.meta.Touch()
	return c, nil
}

// RestoreConcept rehydrates a concept from storage without re-running input validation.
func RestoreConcept(s ConceptState) *Concept {
	c := &Concept{
		id:         s.ID,
		problem:    redactedProblem(s.Problem),
		status:     s.Status,
		ideaID:     s.IdeaID,
		anonymized: s.Anonymized,
		meta:       s.Meta,
	}
	if s.Evaluation != nil {
		ev := s.Evaluation.clone()
		c.evaluation = &ev
	}
	return c
}

func (c *Concept) ID() string            { return c.id }
func (c *Concept) Problem() Problem      { return c.problem }
func (c *Concept) Status() ConceptStatus { return c.status }
func (c *Concept) IdeaID() string        { return c.ideaID }
func (c *Concept) Anonymized() bool      { return c.anonymized }
func (c *Concept) Version() int          { return c.meta.Version }
func (c *Concept) UpdatedAt() time.Time  { return c.meta.UpdatedAt }
func (c *Concept) IsAccepted() bool      { return c.status == ConceptStatusAccepted || c.status == ConceptStatusArchived }
func (c *Concept) Available() bool       { return c.status != ConceptStatusArchived }
func (c *Concept) HasEvaluation() bool   { return c.evaluation != nil }

// Evaluation returns a copy of the attached evaluation, if any.
func (c *Concept) Evaluation() (Evaluation, bool) {
	if c.evaluation == nil {
		return Evaluation{}, false
	}
	return c.evaluation.clone(), true
}

// State returns a detached copy of the concept.
func (c *Concept) State() ConceptState {
	s := ConceptState{
		ID:         c.id,
		Problem:    c.problem.String(),
		Status:     c.status,
		IdeaID:     c.ideaID,
		Anonymized: c.anonymized,
		Meta:       c.meta,
	}
	if c.evaluation != nil {
		ev := c.evaluation.clone()
		s.Evaluation = &ev
	}
	return s
}

// StartEvaluation records that an evaluation is in flight.
func (c *Concept) StartEvaluation() error {
	switch c.status {
	case ConceptStatusDraft, ConceptStatusEvaluating:
		c.status = ConceptStatusEvaluating
		c.meta.Touch()
		return nil
	case ConceptStatusEvaluated:
		return nil
	default:
		return ErrConceptAlreadyAccepted
	}
}

// AbortEvaluation returns an in-flight evaluation to draft so it can be retried.
func (c *Concept) AbortEvaluation() error {
	if c.status != ConceptStatusEvaluating {
		return nil
	}
	c.status = ConceptStatusDraft
	c.meta.Touch()
	return nil
}

// Evaluate attaches the evaluation. Re-evaluation is allowed until acceptance.
func (c *Concept) Evaluate(ev Evaluation) error {
	if c.IsAccepted() {
		return ErrConceptAlreadyAccepted
	}
	if err := ev.validate(); err != nil {
		return err
	}
	ev = ev.clone()
	c.evaluation = &ev
	c.status = ConceptStatusEvaluated
	c.meta.Touch()
	return nil
}

// CanAccept reports whether Accept would succeed for any idea id.
func (c *Concept) CanAccept() error {
	if c.IsAccepted() {
		return ErrConceptAlreadyAccepted
	}
	if c.status != ConceptStatusEvaluated || c.evaluation == nil {
		return ErrConceptNotEvaluated
	}
	return nil
}

// Accept links the concept to the idea reserved for it.
func (c *Concept) Accept(ideaID string) error {
	if err := validateID("idea_id", ideaID); err != nil {
		return err
	}
	if err := c.CanAccept(); err != nil {
		return err
	}
	c.ideaID = ideaID
	c.status = ConceptStatusAccepted
	c.meta.Touch()
	return nil
}

// Archive closes the concept once its content lives on in the idea.
func (c *Concept) Archive() error {
	if c.status != ConceptStatusAccepted || c.ideaID == "" {
		return ErrConceptNotAccepted
	}
	c.status = ConceptStatusArchived
	c.meta.Touch()
	return nil
}

// Anonymize rewrites every free-text field through scrub. It is a no-op once applied.
func (c *Concept) Anonymize(scrub func(string) string) error {
	if c.status != ConceptStatusArchived {
		return ErrConceptNotAccepted
	}
	if c.anonymized {
		return nil
	}
	c.problem = redactedProblem(scrub(c.problem.String()))
	if c.evaluation != nil {
		ev := c.evaluation.clone()
		ev.Suggestions = scrubAll(scrub, ev.Suggestions)
		ev.Recommendations = scrubAll(scrub, ev.Recommendations)
		ev.PainPoints = scrubAll(scrub, ev.PainPoints)
		ev.MarketExistence = scrub(ev.MarketExistence)
		for i := range ev.TargetAudiences {
			ev.TargetAudiences[i].Description = scrub(ev.TargetAudiences[i].Description)
			ev.TargetAudiences[i].Challenges = scrubAll(scrub, ev.TargetAudiences[i].Challenges)
		}
		c.evaluation = &ev
	}
	c.anonymized = true
	c.meta.Touch()
	return nil
}

// ReservationContent extracts what the idea context needs to create an idea.
func (c *Concept) ReservationContent() (ConceptContent, error) {
	if c.evaluation == nil {
		return ConceptContent{}, ErrConceptNotEvaluated
	}
	ev := c.evaluation.clone()
	return ConceptContent{
		ConceptID:       c.id,
		Problem:         c.problem.String(),
		MarketExistence: ev.MarketExistence,
		TargetAudiences: ev.TargetAudiences,
	}, nil
}

func scrubAll(scrub func(string) string, in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = scrub(s)
	}
	return out
}
