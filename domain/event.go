package domain

import "time"

// EventType names a domain event. Subscribers are keyed by it.
type EventType string

const (
	EventConceptCreated                EventType = "concept.created"
	EventConceptAccepted               EventType = "concept.accepted"
	EventConceptTransitioned           EventType = "concept.transitioned"
	EventIdeaCreated                   EventType = "idea.created"
	EventIdeaArchived                  EventType = "idea.archived"
	EventSocialMediaCampaignsRequested EventType = "idea.social_media_campaigns_requested"
)

// ConceptEventTypes lists the events emitted on the concept context bus.
func ConceptEventTypes() []EventType {
	return []EventType{EventConceptCreated, EventConceptAccepted, EventConceptTransitioned}
}

// IdeaEventTypes lists the events emitted on the idea context bus.
func IdeaEventTypes() []EventType {
	return []EventType{EventIdeaCreated, EventIdeaArchived, EventSocialMediaCampaignsRequested}
}

// Event is implemented only by the event structs of this package.
type Event interface {
	Type() EventType
	AggregateID() string
	OccurredAt() time.Time
	sealed()
}

type eventBase struct {
	ID string    `json:"id"`
	At time.Time `json:"occurred_at"`
}

func (e eventBase) AggregateID() string   { return e.ID }
func (e eventBase) OccurredAt() time.Time { return e.At }
func (eventBase) sealed()                 {}

func newBase(id string) eventBase {
	return eventBase{ID: id, At: time.Now().UTC()}
}

type ConceptCreated struct{ eventBase }

func NewConceptCreated(id string) ConceptCreated { return ConceptCreated{newBase(id)} }
func (ConceptCreated) Type() EventType           { return EventConceptCreated }

type ConceptAccepted struct{ eventBase }

func NewConceptAccepted(id string) ConceptAccepted { return ConceptAccepted{newBase(id)} }
func (ConceptAccepted) Type() EventType            { return EventConceptAccepted }

type ConceptTransitioned struct {
	eventBase
	IdeaID string `json:"idea_id"`
}

func NewConceptTransitioned(id, ideaID string) ConceptTransitioned {
	return ConceptTransitioned{eventBase: newBase(id), IdeaID: ideaID}
}
func (ConceptTransitioned) Type() EventType { return EventConceptTransitioned }

type IdeaCreated struct{ eventBase }

func NewIdeaCreated(id string) IdeaCreated { return IdeaCreated{newBase(id)} }
func (IdeaCreated) Type() EventType        { return EventIdeaCreated }

type IdeaArchived struct{ eventBase }

func NewIdeaArchived(id string) IdeaArchived { return IdeaArchived{newBase(id)} }
func (IdeaArchived) Type() EventType         { return EventIdeaArchived }

type SocialMediaCampaignsRequested struct{ eventBase }

func NewSocialMediaCampaignsRequested(id string) SocialMediaCampaignsRequested {
	return SocialMediaCampaignsRequested{newBase(id)}
}
func (SocialMediaCampaignsRequested) Type() EventType { return EventSocialMediaCampaignsRequested }
