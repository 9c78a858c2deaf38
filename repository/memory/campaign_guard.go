package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastygo/ideaflow/repository"
)

// CampaignRequestGuard is the in-process counterpart of the Redis guard.
type CampaignRequestGuard struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewCampaignRequestGuard(ttl time.Duration) *CampaignRequestGuard {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CampaignRequestGuard{
		ttl:     ttl,
		now:     time.Now,
		pending: make(map[string]time.Time),
	}
}

var _ repository.CampaignRequestGuard = (*CampaignRequestGuard)(nil)

func (g *CampaignRequestGuard) Acquire(_ context.Context, ideaID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if expires, ok := g.pending[ideaID]; ok && now.Before(expires) {
		return false, nil
	}
	g.pending[ideaID] = now.Add(g.ttl)
	return true, nil
}

func (g *CampaignRequestGuard) Release(_ context.Context, ideaID string) error {
	g.mu.Lock()
	delete(g.pending, ideaID)
	g.mu.Unlock()
	return nil
}
