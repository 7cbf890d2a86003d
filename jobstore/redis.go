// Package jobstore persists job records in Redis. Records are stored as
// whole JSON documents and replaced on save (copy-with-changes), so a job is
// never observable in a partially updated state.
package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"clipsmith/types"
)

// ErrNotFound means no record exists for the requested job ID.
var ErrNotFound = errors.New("job not found")

// Store is a minimal Redis-backed job store.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Config configures the Redis connection and key layout.
type Config struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// Prefix namespaces job keys, default "jobs"
	Prefix string
	// TTL expires finished records; zero keeps them forever
	TTL time.Duration
}

// NewStoreFromEnv creates a Store using REDIS_ADDR, REDIS_PASS, REDIS_DB,
// JOBS_KEY_PREFIX and JOBS_TTL_SECONDS environment variables.
func NewStoreFromEnv(ctx context.Context) (*Store, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	prefix := os.Getenv("JOBS_KEY_PREFIX")
	if prefix == "" {
		prefix = "jobs"
	}
	var ttl time.Duration
	if t := os.Getenv("JOBS_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return NewStore(ctx, Config{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
		Prefix:   prefix,
		TTL:      ttl,
	})
}

// NewStore creates a Store and verifies connectivity.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "jobs"
	}
	return &Store{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get fetches the job record for id.
func (s *Store) Get(ctx context.Context, id string) (types.Job, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Job{}, ErrNotFound
	}
	if err != nil {
		return types.Job{}, err
	}

	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return types.Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

// Save replaces the stored record for job.ID with the given copy.
func (s *Store) Save(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job has no ID")
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return s.client.Set(ctx, s.key(job.ID), data, s.ttl).Err()
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}
