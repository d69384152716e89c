package plans

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-hr/meridian-access/internal/access"
)

// Cache stores plan snapshots in Redis with a short TTL so that hot
// access checks do not hit the subscriptions table on every decision.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedPlan struct {
	Present bool         `json:"present"`
	Plan    *access.Plan `json:"plan,omitempty"`
}

func planKey(tenantID uuid.UUID) string {
	return "plan:" + tenantID.String()
}

// Get returns the cached plan for the tenant. The second return value
// reports a cache hit; a hit may still carry a nil plan (negative
// caching of tenants without a subscription).
func (c *Cache) Get(ctx context.Context, tenantID uuid.UUID) (*access.Plan, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	payload, err := c.client.Get(ctx, planKey(tenantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var stored cachedPlan
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, false, err
	}
	if !stored.Present {
		return nil, true, nil
	}
	return stored.Plan, true, nil
}

// Set stores the plan, including the no-subscription case.
func (c *Cache) Set(ctx context.Context, tenantID uuid.UUID, plan *access.Plan) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(cachedPlan{Present: plan != nil, Plan: plan})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, planKey(tenantID), payload, c.ttl).Err()
}

// Invalidate drops the tenant's cached plan.
func (c *Cache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, planKey(tenantID)).Err()
}
