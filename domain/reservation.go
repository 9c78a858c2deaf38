package domain

import "fmt"

// RejectionReason explains why a cross-context reservation step was refused.
type RejectionReason string

const (
	ReasonConceptNotFound    RejectionReason = "concept_not_found"
	ReasonConceptUnavailable RejectionReason = "concept_unavailable"
	ReasonNotEvaluated       RejectionReason = "not_evaluated"
	ReasonAlreadyAccepted    RejectionReason = "already_accepted"
	ReasonMissingContent     RejectionReason = "missing_content"
	ReasonIdeaExists         RejectionReason = "idea_exists"
	ReasonInvalidRequest     RejectionReason = "invalid_request"
	ReasonExpired            RejectionReason = "expired"
)

// Rejected is the failure variant shared by ReservationResult and ConceptLookup.
type Rejected struct {
	Reason  RejectionReason
	Message string
}

func (r Rejected) Error() string {
	if r.Message == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

// Err converts the rejection into a collaboration error for callers that abort on it.
func (r Rejected) Err() error {
	return WrapError(ErrCodeCollaboration, ErrReservationRejected.Message, r)
}

// ReservationResult is returned by IdeaService.Reserve: ReservationAccepted or Rejected.
type ReservationResult interface {
	reservationResult()
}

// ReservationAccepted confirms the idea context created (or already holds) the idea.
type ReservationAccepted struct {
	IdeaID    string
	ConceptID string
	Replayed  bool
}

func (ReservationAccepted) reservationResult() {}
func (Rejected) reservationResult()            {}

// ConceptLookup is returned by ConceptService.ContentForReservation: ConceptFound or Rejected.
type ConceptLookup interface {
	conceptLookup()
}

// ConceptFound carries the concept snapshot for reservation.
type ConceptFound struct {
	Content ConceptContent
}

func (ConceptFound) conceptLookup() {}
func (Rejected) conceptLookup()     {}
