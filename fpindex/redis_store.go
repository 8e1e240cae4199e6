package fpindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/refpersys/rpsfront/rpshash"
)

// DefaultRedisPrefix namespaces fingerprint keys in Redis.
const DefaultRedisPrefix = "rpsfp:"

// redisStore implements Store on Redis so several hosts share one index.
type redisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore creates a Redis-backed store. It expects a pre-configured
// redis.Cmdable (e.g., redis.Client or redis.ClusterClient).
func NewRedisStore(client redis.Cmdable, prefix string) Store {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

// Record implements Store with SETNX followed by GET when the key exists.
func (s *redisStore) Record(ctx context.Context, fp rpshash.Fingerprint, text string) (string, bool, error) {
	k := s.prefix + key(fp)

	created, err := s.client.SetNX(ctx, k, text, 0).Result()
	if err != nil {
		log.Error().Err(err).Str("key", k).Msg("redis setnx failed")
		return "", false, fmt.Errorf("record fingerprint %s: %w", k, err)
	}
	if created {
		log.Debug().Str("key", k).Msg("fingerprint recorded in redis")
		return "", false, nil
	}

	prior, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// deleted between SETNX and GET, nothing to compare against
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", k).Msg("redis get failed")
		return "", false, fmt.Errorf("read fingerprint %s: %w", k, err)
	}
	return prior, prior != text, nil
}
