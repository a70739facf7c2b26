package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stats cache keys, one namespace per collection and user.
const (
	InvoiceStatsKeyFmt = "stats:invoices:%d"
	ExpenseStatsKeyFmt = "stats:expenses:%d"
	ClientStatsKeyFmt  = "stats:clients:%d"

	statsTTL = 5 * time.Minute
	authTTL  = 15 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unreachable every helper degrades to a miss/no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// hashCredentials creates a hash of email+password for the auth cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int, bool) {
	if client == nil {
		return 0, false
	}
	userID, err := client.Get(ctx, hashCredentials(email, password)).Int()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials, skipping bcrypt on repeat logins
func CacheAuth(ctx context.Context, email, password string, userID int) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(email, password), userID, authTTL)
}

// InvalidateAuth removes cached auth for a credential pair (password change)
func InvalidateAuth(ctx context.Context, email, password string) {
	if client == nil {
		return
	}
	client.Del(ctx, hashCredentials(email, password))
}

// GetCachedStats returns a cached serialized stats payload if present.
func GetCachedStats(ctx context.Context, keyFmt string, userID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(keyFmt, userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheStats stores a serialized stats payload.
func CacheStats(ctx context.Context, keyFmt string, userID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(keyFmt, userID), data, statsTTL)
}

// InvalidateStats drops a user's cached stats after a write to the backing
// collection.
func InvalidateStats(ctx context.Context, keyFmt string, userID int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(keyFmt, userID))
}
