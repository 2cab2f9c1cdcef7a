package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/bitacora/blog/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var _ domain.SlotStore = (*RedisSlotRepository)(nil)

const redisPingTimeout = 5 * time.Second

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisSlotRepository implements domain.SlotStore with one Redis string key per slot
type RedisSlotRepository struct {
	client *redis.Client
}

// ConnectRedis creates a client and verifies the connection with a ping
func ConnectRedis(cfg *RedisConfig) (*RedisSlotRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Connected to redis")
	return NewRedisSlotRepository(client), nil
}

func NewRedisSlotRepository(client *redis.Client) *RedisSlotRepository {
	return &RedisSlotRepository{client: client}
}

// Get reads the slot; redis.Nil means the key was never written
func (r *RedisSlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return val, true, nil
}

// Put overwrites the slot without expiry
func (r *RedisSlotRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot %s: %w", key, err)
	}
	return nil
}

func (r *RedisSlotRepository) Close() error {
	return r.client.Close()
}
