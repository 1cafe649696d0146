package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/minicanvas-api/internal/models"
)

type snapshotStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
	Path(filename string) string
}

// FileSnapshotRepository writes course snapshots as JSON files.
type FileSnapshotRepository struct {
	storage   snapshotStorage
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewFileSnapshotRepository constructs the repository. A zero retention keeps every snapshot.
func NewFileSnapshotRepository(storage snapshotStorage, retention time.Duration, logger *zap.Logger) *FileSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSnapshotRepository{
		storage:   storage,
		retention: retention,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SaveCourses writes courses-<unix-nanos>.json and prunes expired snapshots.
func (r *FileSnapshotRepository) SaveCourses(ctx context.Context, courses []models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	payload, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal course snapshot: %w", err)
	}

	name := fmt.Sprintf("courses-%d.json", r.now().UnixNano())
	saved, err := r.storage.Save(name, payload)
	if err != nil {
		return fmt.Errorf("write course snapshot: %w", err)
	}
	r.logger.Sugar().Debugw("course snapshot written", "path", r.storage.Path(saved), "count", len(courses))

	if r.retention > 0 {
		removed, err := r.storage.CleanupOlderThan(r.retention)
		if err != nil {
			r.logger.Sugar().Warnw("snapshot cleanup failed", "error", err)
		} else if len(removed) > 0 {
			r.logger.Sugar().Infow("expired snapshots removed", "count", len(removed))
		}
	}
	return nil
}
