// Package cache stores short-lived JSON values such as pending invitations.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key-value store. Get reports false for missing or expired keys.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}
