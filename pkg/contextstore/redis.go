package contextstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luminshop/payments/pkg/types"
	"github.com/redis/go-redis/v9"
)

// RedisStore 生产部署使用，多实例共享在途上下文
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  800 * time.Millisecond,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string, channel types.PaymentChannel) (*CorrelationContext, error) {
	data, err := s.client.Get(ctx, contextKey(sessionID, channel)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cc CorrelationContext
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("corrupt correlation context: %w", err)
	}
	return &cc, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, channel types.PaymentChannel, cc *CorrelationContext) error {
	data, err := json.Marshal(cc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, contextKey(sessionID, channel), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string, channel types.PaymentChannel) error {
	return s.client.Del(ctx, contextKey(sessionID, channel)).Err()
}
