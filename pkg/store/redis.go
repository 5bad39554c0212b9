package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
)

// defaultRedisKey is the hash under which all diagrams are stored.
const defaultRedisKey = "umlkit:diagrams"

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr string

	// Password is the optional server password.
	Password string

	// DB is the Redis database number.
	DB int

	// Key is the hash key holding the diagrams. Defaults to
	// "umlkit:diagrams".
	Key string
}

// RedisStore stores diagrams as fields of a single Redis hash, one field per
// diagram name. Suitable for multi-instance deployments where every instance
// must see the same diagrams.
type RedisStore struct {
	client *redis.Client
	key    string
}

// redisRecord is the stored value for one diagram.
type redisRecord struct {
	Doc       persist.Document `json:"doc"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis at %s", cfg.Addr)
	}
	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, d *diagram.Diagram) error {
	if err := validateName(name); err != nil {
		return err
	}
	data, err := json.Marshal(redisRecord{Doc: persist.Encode(d), UpdatedAt: time.Now()})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal %q", name)
	}
	if err := s.client.HSet(ctx, s.key, name, data).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %q", name)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*diagram.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load %q", name)
	}
	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %q", name)
	}
	return persist.Decode(rec.Doc)
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	out := make([]Info, 0, len(fields))
	for name, data := range fields {
		var rec redisRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		out = append(out, Info{Name: name, Diagram: rec.Doc.Diagram, UpdatedAt: rec.UpdatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	removed, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %q", name)
	}
	if removed == 0 {
		return errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
