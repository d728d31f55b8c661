package presets

import (
	"context"
	"fmt"
	"sort"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "preset:"
	indexKey  = "presets"
)

// Storage keeps every preset as a hash and their names in a set.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(name string) string {
	return keyPrefix + name
}

// Save replaces the preset document.
func (s *Storage) Save(ctx context.Context, name string, values map[string]any) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(name))
		if len(values) > 0 {
			pipe.HSet(ctx, key(name), values)
		}
		pipe.SAdd(ctx, indexKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context, name string) (map[string]any, error) {
	exists, err := s.redis.SIsMember(ctx, indexKey, name).Result()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", errorz.ErrPresetNotFound, name)
	}

	fields, err := s.redis.HGetAll(ctx, key(name)).Result()
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	return values, nil
}

// List returns preset names in lexical order.
func (s *Storage) List(ctx context.Context) ([]string, error) {
	names, err := s.redis.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *Storage) Delete(ctx context.Context, name string) error {
	removed, err := s.redis.SRem(ctx, indexKey, name).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", errorz.ErrPresetNotFound, name)
	}
	return s.redis.Del(ctx, key(name)).Err()
}
