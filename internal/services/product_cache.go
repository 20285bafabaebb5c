// product_cache.go
//
// A Go Fiber storefront backend: catalog, accounts, product images and realtime presence
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of storefront.
// storefront is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// storefront is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with storefront.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const productKeyPrefix = "product:"

// ProductCache keeps product lookups in redis. A nil *ProductCache reads straight
// from the database, so callers need not check whether caching is configured.
type ProductCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient builds the client used by the product cache and the health check
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
}

// NewProductCache caches product lookups in client for ttl.
func NewProductCache(client redis.UniversalClient, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// productKey lowercases term, every lookup term matches case-insensitively.
// Any form uuid.Parse accepts keys on the canonical id.
func productKey(term string) string {
	if id, err := uuid.Parse(term); err == nil {
		return productKeyPrefix + id.String()
	}
	return productKeyPrefix + strings.ToLower(term)
}

// FindProductPlain returns the cached product for term, loading and caching it on a miss.
// Redis failures fall back to the database.
func (c *ProductCache) FindProductPlain(ctx context.Context, db *gorm.DB, term string) (*ProductResponse, error) {
	if c == nil {
		return FindProductPlain(ctx, db, term)
	}

	key := productKey(term)
	val, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var product ProductResponse
		if err := json.Unmarshal(val, &product); err == nil {
			return &product, nil
		}
		zap.L().Warn("Discarding unreadable cached product", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		zap.L().Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	}

	product, err := FindProductPlain(ctx, db, term)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			zap.L().Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return product, nil
}

// Invalidate drops every key product can be found under
func (c *ProductCache) Invalidate(ctx context.Context, products ...*ProductResponse) {
	if c == nil {
		return
	}

	var keys []string
	for _, p := range products {
		if p == nil {
			continue
		}
		keys = append(keys, productKey(p.ID), productKey(p.Title), productKey(p.Slug))
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("Product cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Clear drops every cached product
func (c *ProductCache) Clear(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		zap.L().Warn("Product cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("Product cache clear failed", zap.Error(err))
	}
}

// Ping checks the redis connection
func (c *ProductCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
