package journal

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"discovery-sync/core/storage/mocks"
	"discovery-sync/feature/discovery/sync"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestBeginCreatesRunningEntry(t *testing.T) {
	db, dbMock := setupMockDB(t)
	j := New(db, nil, "", zap.NewNop())

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO `sync_runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	run, err := j.Begin(context.Background(), "acme")
	assert.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestFinishRecordsTotalsAndSummary(t *testing.T) {
	db, dbMock := setupMockDB(t)
	j := New(db, nil, "", zap.NewNop())

	run := &Run{ID: "r1", Account: "acme", Status: StatusRunning}

	res := sync.NewResult()
	res.AddCount(sync.PhaseAssets, 3)
	res.AddError(sync.PhaseAssets, "one bad asset")

	dbMock.ExpectBegin()
	dbMock.ExpectExec("UPDATE `sync_runs`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	err := j.Finish(context.Background(), run, StatusDone, res)
	assert.NoError(t, err)
	assert.Equal(t, StatusDone, run.Status)
	assert.Equal(t, 3, run.UploadTotal)
	assert.Equal(t, 1, run.ErrorTotal)
	assert.Contains(t, run.Summary, "one bad asset")
	assert.NotNil(t, run.EndedAt)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestFinishArchivesOversizedSummary(t *testing.T) {
	db, dbMock := setupMockDB(t)

	store := new(mocks.Client)
	store.On("PutObject", mock.Anything, "journal-bucket", "runs/r1.json",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	j := New(db, store, "journal-bucket", zap.NewNop())
	j.maxSummary = 64

	res := sync.NewResult()
	res.AddError(sync.PhaseAssets, strings.Repeat("x", 200))

	dbMock.ExpectBegin()
	dbMock.ExpectExec("UPDATE `sync_runs`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectCommit()

	run := &Run{ID: "r1", Account: "acme"}
	err := j.Finish(context.Background(), run, StatusDone, res)
	assert.NoError(t, err)
	assert.Len(t, run.Summary, 64)
	assert.Equal(t, "runs/r1.json", run.SummaryObject)
	store.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestNilDatabaseIsNoOp(t *testing.T) {
	j := New(nil, nil, "", zap.NewNop())

	run, err := j.Begin(context.Background(), "acme")
	assert.NoError(t, err)
	assert.Nil(t, run)

	assert.NoError(t, j.Finish(context.Background(), nil, StatusDone, nil))
	assert.NoError(t, j.Migrate())

	runs, err := j.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, runs)
}
