package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ovaldezb/aws-microservices/services/product/models"
)

const productCachePrefix = "product:detail:"

// ProductCache is a read-through Redis cache over single-product lookups.
// Cache misses and Redis failures are both treated as "not cached"; the
// store of record stays DynamoDB.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *ProductCache {
	return &ProductCache{redis: client, ttl: ttl, log: log}
}

func (pc *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	if pc == nil || pc.redis == nil {
		return nil, false
	}

	data, err := pc.redis.Get(ctx, productCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		pc.log.Warn("failed to unmarshal cached product", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return &product, true
}

func (pc *ProductCache) Set(ctx context.Context, product *models.Product) {
	if pc == nil || pc.redis == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := pc.redis.Set(ctx, productCachePrefix+product.ID, data, pc.ttl).Err(); err != nil {
		pc.log.Warn("failed to cache product", zap.String("id", product.ID), zap.Error(err))
	}
}

// Invalidate drops the cached entry after a write or delete.
func (pc *ProductCache) Invalidate(ctx context.Context, id string) {
	if pc == nil || pc.redis == nil {
		return
	}
	if err := pc.redis.Del(ctx, productCachePrefix+id).Err(); err != nil {
		pc.log.Warn("failed to invalidate cached product", zap.String("id", id), zap.Error(err))
	}
}
