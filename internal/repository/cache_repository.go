package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/minicanvas-api/internal/models"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
)

// DefaultCourseSnapshotKey is where SaveCourses writes when no key is configured.
const DefaultCourseSnapshotKey = "minicanvas:courses:snapshot"

// CacheRepository stores JSON values in Redis. A nil client turns writes into
// no-ops and reads into cache misses.
type CacheRepository struct {
	client      *redis.Client
	snapshotKey string
	logger      *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, snapshotKey string, logger *zap.Logger) *CacheRepository {
	if snapshotKey == "" {
		snapshotKey = DefaultCourseSnapshotKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, snapshotKey: snapshotKey, logger: logger}
}

// SnapshotKey returns the key used for course snapshots.
func (r *CacheRepository) SnapshotKey() string { return r.snapshotKey }

// SaveCourses stores the course snapshot without expiry.
func (r *CacheRepository) SaveCourses(ctx context.Context, courses []models.Course) error {
	if courses == nil {
		courses = []models.Course{}
	}
	if err := r.Set(ctx, r.snapshotKey, courses, 0); err != nil {
		return err
	}
	r.logger.Sugar().Debugw("course snapshot cached", "key", r.snapshotKey, "count", len(courses))
	return nil
}

// LoadCourses reads the last stored snapshot.
func (r *CacheRepository) LoadCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.Get(ctx, r.snapshotKey, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get retrieves and unmarshals the cached value into dest.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals value and stores it with ttl. A zero ttl means no expiry.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
