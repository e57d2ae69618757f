package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// presenceTTL bounds how stale an online marker can get if a disconnect is
// never observed (process crash, dropped TCP). The websocket read loop
// refreshes the marker on every ping.
const presenceTTL = 90 * time.Second

// PresenceStore records which identities currently hold a live websocket
// session. Key format: presence:<identity_id>
type PresenceStore struct {
	client *redis.Client
}

func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

func (p *PresenceStore) MarkOnline(ctx context.Context, id string) error {
	return p.client.Set(ctx, p.key(id), "1", presenceTTL).Err()
}

func (p *PresenceStore) MarkOffline(ctx context.Context, id string) error {
	return p.client.Del(ctx, p.key(id)).Err()
}

// Online reports, for each id, whether an online marker exists.
func (p *PresenceStore) Online(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.key(id)
	}

	vals, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("presence mget: %w", err)
	}
	for i, v := range vals {
		out[ids[i]] = v != nil
	}
	return out, nil
}

func (p *PresenceStore) key(id string) string {
	return "presence:" + id
}
