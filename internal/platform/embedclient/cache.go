package embedclient

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "embedcache:"

// cacheKey derives the content-addressed cache key: hash(model_id ||
// composed_text).
func cacheKey(modelID, text string) string {
	sum := sha256.Sum256([]byte(modelID + "\x00" + text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// RedisCache is the Cache implementation backing Client in production,
// following internal/platform/redis's thin-wrapper-over-go-redis style.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed embedding cache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached vector, or hit=false on a cache miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return decodeVector(data), true, nil
}

// Set stores a vector under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, vector []float32) error {
	return c.client.Set(ctx, key, encodeVector(vector), c.ttl).Err()
}

func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
