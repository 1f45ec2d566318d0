package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suPer8Hu/journal-terminal/internal/prefs"
)

type Store struct {
	rdb      *redis.Client
	imageTTL time.Duration
}

func New(addr, password string, db int, imageTTL time.Duration) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb, imageTTL: imageTTL}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func prefsKey(scope string) string {
	return "prefs:" + scope
}

func imageKey(scope, kind string) string {
	return fmt.Sprintf("image:%s:%s", scope, kind)
}

// Load implements prefs.Store. A missing key is zero prefs.
func (s *Store) Load(ctx context.Context, scope string) (prefs.Prefs, error) {
	if scope == "" {
		return prefs.Prefs{}, prefs.ErrInvalidScope
	}
	raw, err := s.rdb.Get(ctx, prefsKey(scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return prefs.Prefs{}, nil
	}
	if err != nil {
		return prefs.Prefs{}, err
	}
	var p prefs.Prefs
	if err := json.Unmarshal(raw, &p); err != nil {
		return prefs.Prefs{}, fmt.Errorf("decode prefs: %w", err)
	}
	return p, nil
}

// Save implements prefs.Store. Prefs never expire.
func (s *Store) Save(ctx context.Context, scope string, p prefs.Prefs) error {
	if scope == "" {
		return prefs.ErrInvalidScope
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, prefsKey(scope), raw, 0).Err()
}

// GetImage returns the cached image URL, "" if not cached.
func (s *Store) GetImage(ctx context.Context, scope, kind string) (string, error) {
	v, err := s.rdb.Get(ctx, imageKey(scope, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) SetImage(ctx context.Context, scope, kind, url string) error {
	return s.rdb.Set(ctx, imageKey(scope, kind), url, s.imageTTL).Err()
}
