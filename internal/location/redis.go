package location

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "location:"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps one sample per account, expiring after ttl
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store whose entries expire after ttl
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(accountID int64) string {
	return keyPrefix + strconv.FormatInt(accountID, 10)
}

// Put overwrites the account's sample and restarts its expiry
func (s *RedisStore) Put(ctx context.Context, sample *Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to encode location: %w", err)
	}
	if err := s.client.Set(ctx, key(sample.AccountID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

// GetMany returns the cached samples of the given accounts keyed by id.
// Accounts without a sample are absent from the map.
func (s *RedisStore) GetMany(ctx context.Context, accountIDs []int64) (map[int64]*Sample, error) {
	out := make(map[int64]*Sample, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		keys[i] = key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var sample Sample
		if err := json.Unmarshal([]byte(raw), &sample); err != nil {
			return nil, fmt.Errorf("failed to decode location: %w", err)
		}
		out[accountIDs[i]] = &sample
	}
	return out, nil
}
