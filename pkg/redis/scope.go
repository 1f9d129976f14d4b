package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/senzor/pkg/session"
)

// Scope is a key/value scope stored under "<prefix>:<namespace>:".
// It implements session.Scope.
type Scope struct {
	db        redis.UniversalClient
	prefix    string
	ttl       time.Duration
	batchSize int64
}

var _ session.Scope = (*Scope)(nil)

// NewScope returns the scope for namespace. Zero-valued cfg fields fall back
// to DefaultConfig.
func NewScope(client redis.UniversalClient, namespace string, cfg Config) (*Scope, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	def := DefaultConfig()
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.ScanBatchSize <= 0 {
		cfg.ScanBatchSize = def.ScanBatchSize
	}
	return &Scope{
		db:        client,
		prefix:    cfg.KeyPrefix + ":" + namespace + ":",
		ttl:       cfg.TTL,
		batchSize: cfg.ScanBatchSize,
	}, nil
}

func (s *Scope) key(k string) string {
	return s.prefix + k
}

// Get returns "" for missing keys.
func (s *Scope) Get(ctx context.Context, key string) (string, error) {
	val, err := s.db.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores value. With a TTL configured every write also refreshes it.
func (s *Scope) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return session.ErrInvalidKey
	}
	return s.db.Set(ctx, s.key(key), value, s.ttl).Err()
}

// Delete removes key; missing keys are ignored.
func (s *Scope) Delete(ctx context.Context, key string) error {
	return s.db.Del(ctx, s.key(key)).Err()
}

// Keys lists the keys of the namespace using SCAN, without the prefix.
func (s *Scope) Keys(ctx context.Context) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.batchSize).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Clear removes every key of the namespace.
func (s *Scope) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil || len(keys) == 0 {
		return err
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.db.Del(ctx, full...).Err()
}
