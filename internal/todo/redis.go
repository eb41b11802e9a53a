package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"innkeep/internal/config"
	"innkeep/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	todoKeyPrefix  = "todo:"
	todoCounterKey = "todo:next_id"
	todoOrderKey   = "todo:ids"
)

// RedisStore persists todos as JSON values. The id counter lives in Redis
// (INCR) and an id list keeps insertion order for pagination.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func todoKey(id int64) string {
	return todoKeyPrefix + strconv.FormatInt(id, 10)
}

func (s *RedisStore) Create(ctx context.Context, todo *models.Todo) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	id, err := s.client.Incr(ctx, todoCounterKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate todo id: %w", err)
	}
	todo.ID = id

	data, err := json.Marshal(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, todoKey(id), data, models.DefaultRedisTTL)
	pipe.RPush(ctx, todoOrderKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store todo in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, skip, limit int) ([]models.Todo, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	total, err := s.client.LLen(ctx, todoOrderKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo count: %w", err)
	}

	start, end := paginate(int(total), skip, limit)
	if start == end {
		return []models.Todo{}, nil
	}

	ids, err := s.client.LRange(ctx, todoOrderKey, int64(start), int64(end-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo ids: %w", err)
	}

	out := make([]models.Todo, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		todo, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *todo)
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id int64) (*models.Todo, error) {
	if s.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	val, err := s.client.Get(ctx, todoKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo from redis: %w", err)
	}

	var todo models.Todo
	if err := json.Unmarshal([]byte(val), &todo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal todo: %w", err)
	}
	return &todo, nil
}

func (s *RedisStore) Update(ctx context.Context, id int64, todo *models.Todo) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	exists, err := s.client.Exists(ctx, todoKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check todo existence: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	todo.ID = id
	data, err := json.Marshal(todo)
	if err != nil {
		return fmt.Errorf("failed to marshal todo: %w", err)
	}

	if err := s.client.Set(ctx, todoKey(id), data, models.DefaultRedisTTL).Err(); err != nil {
		return fmt.Errorf("failed to update todo in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	deleted, err := s.client.Del(ctx, todoKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete todo from redis: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := s.client.LRem(ctx, todoOrderKey, 1, id).Err(); err != nil {
		return fmt.Errorf("failed to remove todo id from order list: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
