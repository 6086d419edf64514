package imports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE import_job (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		filename TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'processing',
		result_data TEXT,
		error_message TEXT,
		author_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) (ImportJobRepo, dbctx.Context) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewImportJobRepo(openTestDB(t), log), dbctx.Context{Ctx: context.Background()}
}

func createProcessingJob(t *testing.T, repo ImportJobRepo, dbc dbctx.Context, authorID uuid.UUID) *types.ImportJob {
	t.Helper()
	job := &types.ImportJob{
		ID:       uuid.New(),
		Type:     types.ImportJobTypeIFC,
		Filename: "model.ifc",
		Status:   types.ImportJobStatusProcessing,
		AuthorID: authorID,
	}
	if _, err := repo.Create(dbc, []*types.ImportJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestMarkCompletedWritesStatusAndResultTogether(t *testing.T) {
	repo, dbc := newTestRepo(t)
	job := createProcessingJob(t, repo, dbc, uuid.New())

	result := datatypes.JSON(`[{"name":"Steel Beam"}]`)
	ok, err := repo.MarkCompleted(dbc, job.ID, result)
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if !ok {
		t.Fatalf("transition reported no-op for processing job")
	}

	got, err := repo.GetByID(dbc, job.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.ImportJobStatusCompleted {
		t.Fatalf("status: got %q want %q", got.Status, types.ImportJobStatusCompleted)
	}
	if string(got.ResultData) != string(result) {
		t.Fatalf("result data: got %s", got.ResultData)
	}
	if !got.Terminal() {
		t.Fatalf("completed job must be terminal")
	}
}

func TestTerminalJobIsImmutable(t *testing.T) {
	repo, dbc := newTestRepo(t)
	job := createProcessingJob(t, repo, dbc, uuid.New())

	if _, err := repo.MarkFailed(dbc, job.ID, "Failed to process IFC file"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// A second transition of either kind must not fire.
	ok, err := repo.MarkCompleted(dbc, job.ID, datatypes.JSON(`[]`))
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if ok {
		t.Fatalf("completed transition fired on failed job")
	}
	ok, err = repo.MarkFailed(dbc, job.ID, "second failure")
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if ok {
		t.Fatalf("failed transition fired twice")
	}

	got, err := repo.GetByID(dbc, job.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.ImportJobStatusFailed {
		t.Fatalf("status changed after terminal: %q", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "Failed to process IFC file" {
		t.Fatalf("error message overwritten: %v", got.ErrorMessage)
	}
	if len(got.ResultData) != 0 {
		t.Fatalf("failed job must not carry result data: %s", got.ResultData)
	}
}

func TestGetByIDOwnerScope(t *testing.T) {
	repo, dbc := newTestRepo(t)
	owner := uuid.New()
	other := uuid.New()
	job := createProcessingJob(t, repo, dbc, owner)

	got, err := repo.GetByID(dbc, job.ID, &owner)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if got == nil {
		t.Fatalf("owner must see own job")
	}

	got, err = repo.GetByID(dbc, job.ID, &other)
	if err != nil {
		t.Fatalf("get as other: %v", err)
	}
	if got != nil {
		t.Fatalf("foreign job must be reported absent")
	}

	// nil scope is unscoped.
	got, err = repo.GetByID(dbc, job.ID, nil)
	if err != nil {
		t.Fatalf("get unscoped: %v", err)
	}
	if got == nil {
		t.Fatalf("unscoped read must see the job")
	}
}
