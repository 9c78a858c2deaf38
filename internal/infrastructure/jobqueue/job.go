package jobqueue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// KindSocialMediaCampaigns generates and attaches campaigns for an idea.
const KindSocialMediaCampaigns = "social_media_campaigns"

const defaultPriority = 3

// Job is a unit of background work persisted until it succeeds or is dropped.
// ID is the dedupe key: enqueueing a job with a known ID replaces the pending one.
type Job struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	AggregateID string          `json:"aggregate_id"`
	Data        json.RawMessage `json:"data,omitempty"`
	Priority    int             `json:"priority"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"last_error,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`

	key []byte
}

// CampaignJob builds the job that produces social media campaigns for ideaID.
func CampaignJob(ideaID string) Job {
	return Job{
		ID:          KindSocialMediaCampaigns + ":" + ideaID,
		Kind:        KindSocialMediaCampaigns,
		AggregateID: ideaID,
	}
}

func (j *Job) normalize() {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Priority <= 0 || j.Priority > 5 {
		j.Priority = defaultPriority
	}
	if j.EnqueuedAt.IsZero() {
		j.EnqueuedAt = time.Now().UTC()
	}
}
