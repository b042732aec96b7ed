package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Prices caches the last price paid to a supplier for an ingredient.
type Prices interface {
	Get(ctx context.Context, supplierID, ingredientID string) (decimal.Decimal, bool)
	Set(ctx context.Context, supplierID, ingredientID string, price decimal.Decimal)
	Invalidate(ctx context.Context, supplierID, ingredientID string)
}

// NewPrices returns a redis-backed cache when client is set, else an
// in-process one.
func NewPrices(client *redis.Client, ttl time.Duration) Prices {
	if client != nil {
		return &RedisPrices{client: client, ttl: ttl}
	}
	return NewMemoryPrices(ttl)
}

type priceKey struct {
	supplierID, ingredientID string
}

// MemoryPrices keeps prices in process memory.
type MemoryPrices struct {
	c   *Cache[priceKey, decimal.Decimal]
	ttl time.Duration
}

func NewMemoryPrices(ttl time.Duration) *MemoryPrices {
	return &MemoryPrices{c: New[priceKey, decimal.Decimal](), ttl: ttl}
}

func (p *MemoryPrices) Get(_ context.Context, supplierID, ingredientID string) (decimal.Decimal, bool) {
	return p.c.Get(priceKey{supplierID, ingredientID})
}

func (p *MemoryPrices) Set(_ context.Context, supplierID, ingredientID string, price decimal.Decimal) {
	p.c.Set(priceKey{supplierID, ingredientID}, price, p.ttl)
}

func (p *MemoryPrices) Invalidate(_ context.Context, supplierID, ingredientID string) {
	p.c.Delete(priceKey{supplierID, ingredientID})
}

// RedisPrices stores prices as decimal strings. Redis failures degrade to
// cache misses.
type RedisPrices struct {
	client *redis.Client
	ttl    time.Duration
}

func redisKey(supplierID, ingredientID string) string {
	return "price:" + supplierID + "|" + ingredientID
}

func (p *RedisPrices) Get(ctx context.Context, supplierID, ingredientID string) (decimal.Decimal, bool) {
	s, err := p.client.Get(ctx, redisKey(supplierID, ingredientID)).Result()
	if err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (p *RedisPrices) Set(ctx context.Context, supplierID, ingredientID string, price decimal.Decimal) {
	p.client.Set(ctx, redisKey(supplierID, ingredientID), price.String(), p.ttl)
}

func (p *RedisPrices) Invalidate(ctx context.Context, supplierID, ingredientID string) {
	p.client.Del(ctx, redisKey(supplierID, ingredientID))
}
