package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"opspilot/types"
)

const bloomOpTimeout = 5 * time.Second

// BloomConfig configures the RedisBloom-backed duplicate hash filter.
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis key for the bloom filter
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
}

// RedisBloom keeps lead identity hashes across runs and processes. It backs
// up the in-memory index when the sheet snapshot could not be loaded.
type RedisBloom struct {
	client *redis.Client
	key    string
}

// NewRedisBloom creates the wrapper and verifies connectivity.
func NewRedisBloom(cfg BloomConfig) (*RedisBloom, error) {
	if cfg.Key == "" {
		cfg.Key = "leads:bloom"
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 100000
	}
	if cfg.ErrorRate <= 0 {
		cfg.ErrorRate = 0.001
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), bloomOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	rb := &RedisBloom{client: client, key: cfg.Key}

	// Reserve the filter if it does not exist yet. BF.RESERVE failing is
	// non-fatal: BF.ADD auto-creates a filter with server defaults.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		client.Do(ctx, "BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity)
	}

	return rb, nil
}

// Exists checks the filter for a lead identity hash via BF.EXISTS.
func (r *RedisBloom) Exists(hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), bloomOpTimeout)
	defer cancel()

	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, hash).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Add inserts a lead identity hash via BF.ADD.
func (r *RedisBloom) Add(hash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), bloomOpTimeout)
	defer cancel()
	return r.client.Do(ctx, "BF.ADD", r.key, hash).Err()
}

// Close closes the underlying Redis client.
func (r *RedisBloom) Close() error {
	return r.client.Close()
}

// IdentityHashes returns stable SHA-256 hashes for both identity keys of a
// lead: the normalized post URL, and the (platform, author) pair.
func IdentityHashes(lead *types.Lead) []string {
	return []string{
		hashKey("url|" + NormalizeURL(lead.PostURL)),
		hashKey("author|" + string(lead.Platform) + "|" + strings.ToLower(strings.TrimSpace(lead.AuthorHandle))),
	}
}

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// NormalizeURL canonicalizes a post URL before it is used as an identity key:
// lowercase scheme and host, no fragment, tracking query params removed, no
// trailing slash.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}

func normalizeAuthor(key AuthorKey) AuthorKey {
	key.Handle = strings.ToLower(strings.TrimSpace(key.Handle))
	return key
}
