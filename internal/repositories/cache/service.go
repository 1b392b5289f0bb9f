// Package cache holds the redis-backed cache used for fee rule sets.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feeengine/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCacheService(client redis.Cmdable, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Rule set caching. Volume is never cached; only the structure's rules and tiers.

func (s *CacheService) ruleSetKey(structureID uint) string {
	return s.GenerateKey("fee_structure", "rules", structureID)
}

// GetRuleSet returns the cached rules and tiers of a structure. The boolean is
// false on a miss.
func (s *CacheService) GetRuleSet(ctx context.Context, structureID uint) (*models.FeeRuleSet, bool, error) {
	var set models.FeeRuleSet
	found, err := s.Get(ctx, s.ruleSetKey(structureID), &set)
	if err != nil || !found {
		return nil, false, err
	}
	return &set, true, nil
}

func (s *CacheService) SetRuleSet(ctx context.Context, structureID uint, set *models.FeeRuleSet) error {
	if set == nil {
		return errors.New("cannot cache nil rule set")
	}
	return s.Set(ctx, s.ruleSetKey(structureID), set)
}

func (s *CacheService) InvalidateRuleSet(ctx context.Context, structureID uint) error {
	return s.Delete(ctx, s.ruleSetKey(structureID))
}

// HealthCheck pings redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
