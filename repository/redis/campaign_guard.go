package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/ideaflow/repository"
)

type campaignRequestGuard struct {
	client redislib.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCampaignRequestGuard creates a Redis-backed guard. A pending request expires
// after ttl so a crashed worker cannot block an idea forever.
func NewCampaignRequestGuard(client redislib.Cmdable, ttl time.Duration) repository.CampaignRequestGuard {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &campaignRequestGuard{
		client: client,
		prefix: "campaigns:pending:",
		ttl:    ttl,
	}
}

func (g *campaignRequestGuard) Acquire(ctx context.Context, ideaID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(ideaID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (g *campaignRequestGuard) Release(ctx context.Context, ideaID string) error {
	return g.client.Del(ctx, g.key(ideaID)).Err()
}

func (g *campaignRequestGuard) key(ideaID string) string {
	return fmt.Sprintf("%s%s", g.prefix, ideaID)
}
