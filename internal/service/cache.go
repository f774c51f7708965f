package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stylofitness/storefront-api/internal/model"
)

const productCacheTTL = 60 * time.Second

// ProductCache is a read-through cache of single products. A nil client disables it.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func productCacheKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (c *ProductCache) Get(ctx context.Context, id int64) (*model.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	cached, err := c.client.Get(ctx, productCacheKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var p model.Product
	if json.Unmarshal([]byte(cached), &p) != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *model.Product) {
	if c == nil || c.client == nil {
		return
	}
	if data, err := json.Marshal(p); err == nil {
		c.client.Set(ctx, productCacheKey(p.ID), data, productCacheTTL)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, productCacheKey(id))
}
