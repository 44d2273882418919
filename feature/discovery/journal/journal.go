package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"discovery-sync/core/storage"
	"discovery-sync/feature/discovery/sync"
)

// DefaultMaxSummarySize is the largest summary stored inline in the journal
// row. Larger summaries are archived to object storage and truncated here.
const DefaultMaxSummarySize = 15000

// Journal records synchronization runs. The database is optional: a nil db
// turns every operation into a no-op so a missing journal never blocks a
// sync.
type Journal struct {
	db         *gorm.DB
	store      storage.Client
	bucket     string
	maxSummary int
	log        *zap.Logger
}

// New creates a journal. store may be nil, in which case oversized
// summaries are truncated without an archive copy.
func New(db *gorm.DB, store storage.Client, bucket string, log *zap.Logger) *Journal {
	return &Journal{
		db:         db,
		store:      store,
		bucket:     bucket,
		maxSummary: DefaultMaxSummarySize,
		log:        log,
	}
}

// Migrate creates or updates the journal table.
func (j *Journal) Migrate() error {
	if j.db == nil {
		return nil
	}
	return j.db.AutoMigrate(&Run{})
}

// Begin opens a journal entry for a starting run.
func (j *Journal) Begin(ctx context.Context, account string) (*Run, error) {
	if j.db == nil {
		return nil, nil
	}
	run := &Run{
		ID:        uuid.NewString(),
		Account:   account,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := j.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to record run start: %w", err)
	}
	return run, nil
}

// Finish closes a journal entry with the run's outcome. The result may be
// nil when the run failed before producing one.
func (j *Journal) Finish(ctx context.Context, run *Run, status string, result *sync.Result) error {
	if j.db == nil || run == nil {
		return nil
	}

	now := time.Now().UTC()
	run.EndedAt = &now
	run.DurationSeconds = now.Sub(run.StartedAt).Seconds()
	run.Status = status

	if result != nil {
		run.UploadTotal = result.TotalUploads()
		run.ErrorTotal = result.TotalErrors()

		summary, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode run summary: %w", err)
		}
		run.Summary = string(summary)
		if len(run.Summary) > j.maxSummary {
			run.SummaryObject = j.archive(ctx, run.ID, summary)
			run.Summary = run.Summary[:j.maxSummary]
		}
	}

	if err := j.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to record run end: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if j.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := j.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// archive uploads the full summary to object storage and returns the object
// key, or empty when archiving is unavailable or fails. A lost archive only
// costs the summary's tail; the run row is still written.
func (j *Journal) archive(ctx context.Context, runID string, summary []byte) string {
	if j.store == nil {
		return ""
	}
	object := fmt.Sprintf("runs/%s.json", runID)
	_, err := j.store.PutObject(ctx, j.bucket, object,
		bytes.NewReader(summary), int64(len(summary)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		j.log.Warn("failed to archive run summary",
			zap.String("run", runID), zap.Error(err))
		return ""
	}
	return object
}
