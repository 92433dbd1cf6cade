package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	profileKeyPrefix    = "profile:%s"
	categoriesKey       = "workout_categories"
	categoriesKeyPrefix = "workout_categories:%s"
)

const (
	ProfileTTL    = 5 * time.Minute
	CategoriesTTL = 10 * time.Minute
)

// ProfileKey builds the cache key for a profile record.
func ProfileKey(profileID string) string {
	return fmt.Sprintf(profileKeyPrefix, profileID)
}

// CategoriesKey builds the cache key for the workout category catalog.
func CategoriesKey() string {
	return categoriesKey
}

// UserCategoriesKey builds the cache key for a member's linked categories.
func UserCategoriesKey(userID string) string {
	return fmt.Sprintf(categoriesKeyPrefix, userID)
}

// Aside fills dest from cache when the key is present, otherwise runs
// load and stores the result under the key. A nil client always loads.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			if json.Unmarshal([]byte(raw), dest) == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to the loader.
			client.Del(ctx, key)
		}
		// A miss or any other Redis error falls through to the loader.
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}

// Invalidate removes a single key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateProfile removes a profile's cached record.
func InvalidateProfile(ctx context.Context, profileID string) {
	Invalidate(ctx, ProfileKey(profileID))
}

