package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

const (
	redisKeyPrefix = "nodecanvas:scene:"
	redisIndexKey  = "nodecanvas:scenes"
)

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps documents as JSON values under a key prefix, with a
// set-based index for listing. Suited to multi-instance deployments where
// several editor servers share one scene collection.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, doc *Document) error {
	if err := prepare(doc); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal scene document")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+doc.ID, data, 0)
	pipe.SAdd(ctx, redisIndexKey, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write scene document")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeNotFound, "scene document %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read scene document")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFile, err, "parse scene document %s", id)
	}
	return &doc, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Document, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list scene index")
	}

	var docs []*Document
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			if errors.GetCode(err) == errors.ErrCodeNotFound {
				// Index entry outlived its value; drop it lazily.
				s.client.SRem(ctx, redisIndexKey, id)
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	sortByName(docs)
	return docs, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, redisKeyPrefix+id)
	pipe.SRem(ctx, redisIndexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete scene document")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
