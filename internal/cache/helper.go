package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/middleware"
	"portfolio/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix    = "user:%d"
	SkillKeyPrefix   = "skill:%d"
	ProjectKeyPrefix = "project:%d"

	// ListKeyFormat is <collection>:list:v<generation>:o<offset>:l<limit>.
	ListKeyFormat       = "%s:list:v%d:o%d:l%d"
	GenerationKeyFormat = "%s:gen"
)

const (
	UserTTL    = 5 * time.Minute
	ContentTTL = 10 * time.Minute
	ListTTL    = 2 * time.Minute
)

// Collections whose paginated lists are cached.
const (
	Skills   = "skills"
	Projects = "projects"
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func SkillKey(id uint) string {
	return fmt.Sprintf(SkillKeyPrefix, id)
}

func ProjectKey(id uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, id)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache failures degrade to a plain fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues("miss").Inc()

	if err := fetch(); err != nil {
		return err
	}

	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate removes key from the cache.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// Generation returns the current list generation of a collection.
func Generation(ctx context.Context, collection string) int64 {
	if client == nil {
		return 0
	}
	gen, err := client.Get(ctx, fmt.Sprintf(GenerationKeyFormat, collection)).Int64()
	if err != nil {
		return 0
	}
	return gen
}

// ListKey builds the key of one cached page of a collection.
func ListKey(ctx context.Context, collection string, offset, limit int) string {
	return fmt.Sprintf(ListKeyFormat, collection, Generation(ctx, collection), offset, limit)
}

// BumpGeneration invalidates every cached page of a collection at once.
// Stale pages are left to expire through ListTTL.
func BumpGeneration(ctx context.Context, collection string) {
	if client != nil {
		client.Incr(ctx, fmt.Sprintf(GenerationKeyFormat, collection))
	}
}
