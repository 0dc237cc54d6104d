package pricing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/redis"
)

type ruleCacheClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	RuleCacheKey(parts ...string) string
}

type ruleSource interface {
	FindActiveZone(ctx context.Context, productID uuid.UUID, zoneCode string) (*models.ProductZoneAdjustment, error)
	ListActiveQuantityTiers(ctx context.Context, productID uuid.UUID) ([]models.ProductQuantityTier, error)
}

// CachedRuleStore serves rule lookups from Redis and falls back to the
// repository on a miss. Cache failures degrade to repository reads; a slow
// price is better than no price. Absent zone rules are cached too, as the
// JSON literal null, so hot unmatched zones do not hammer the database.
type CachedRuleStore struct {
	source ruleSource
	cache  ruleCacheClient
	ttl    time.Duration
	logg   *logger.Logger
}

// NewCachedRuleStore wraps the repository with a read-through rule cache.
func NewCachedRuleStore(source ruleSource, cache ruleCacheClient, ttl time.Duration, logg *logger.Logger) *CachedRuleStore {
	return &CachedRuleStore{source: source, cache: cache, ttl: ttl, logg: logg}
}

// FindActiveZone implements RuleStore.
func (c *CachedRuleStore) FindActiveZone(ctx context.Context, productID uuid.UUID, zoneCode string) (*models.ProductZoneAdjustment, error) {
	key := c.cache.RuleCacheKey("zone", productID.String(), zoneCode)

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var rule *models.ProductZoneAdjustment
		if err := json.Unmarshal([]byte(cached), &rule); err == nil {
			return rule, nil
		}
		c.warn(ctx, "pricing rule cache entry is corrupt, rereading", err)
	} else if err != redis.Nil {
		c.warn(ctx, "pricing rule cache read failed", err)
	}

	rule, err := c.source.FindActiveZone(ctx, productID, zoneCode)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, rule)
	return rule, nil
}

// FindBestActiveTier implements RuleStore. The full active tier list is
// cached per product and the winner picked in memory, so one entry serves
// every quantity.
func (c *CachedRuleStore) FindBestActiveTier(ctx context.Context, productID uuid.UUID, quantity int) (*models.ProductQuantityTier, error) {
	key := c.cache.RuleCacheKey("tiers", productID.String())

	if cached, err := c.cache.Get(ctx, key); err == nil {
		var tiers []models.ProductQuantityTier
		if err := json.Unmarshal([]byte(cached), &tiers); err == nil {
			return bestTier(tiers, quantity), nil
		}
		c.warn(ctx, "pricing rule cache entry is corrupt, rereading", err)
	} else if err != redis.Nil {
		c.warn(ctx, "pricing rule cache read failed", err)
	}

	tiers, err := c.source.ListActiveQuantityTiers(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, tiers)
	return bestTier(tiers, quantity), nil
}

// InvalidateZone drops the cached adjustment for one product and zone.
func (c *CachedRuleStore) InvalidateZone(ctx context.Context, productID uuid.UUID, zoneCode string) {
	key := c.cache.RuleCacheKey("zone", productID.String(), zoneCode)
	if err := c.cache.Del(ctx, key); err != nil {
		c.warn(ctx, "pricing rule cache invalidation failed", err)
	}
}

// InvalidateTiers drops the cached tier list for one product.
func (c *CachedRuleStore) InvalidateTiers(ctx context.Context, productID uuid.UUID) {
	key := c.cache.RuleCacheKey("tiers", productID.String())
	if err := c.cache.Del(ctx, key); err != nil {
		c.warn(ctx, "pricing rule cache invalidation failed", err)
	}
}

func (c *CachedRuleStore) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.warn(ctx, "pricing rule cache encode failed", err)
		return
	}
	if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.warn(ctx, "pricing rule cache write failed", err)
	}
}

func (c *CachedRuleStore) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(ctx, msg+": "+err.Error())
}

// bestTier expects tiers ordered by min_qty descending, created_at descending.
func bestTier(tiers []models.ProductQuantityTier, quantity int) *models.ProductQuantityTier {
	for i := range tiers {
		if tiers[i].MinQty <= quantity {
			return &tiers[i]
		}
	}
	return nil
}
