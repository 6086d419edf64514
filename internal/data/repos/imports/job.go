package imports

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type ImportJobRepo interface {
	Create(dbc dbctx.Context, jobs []*types.ImportJob) ([]*types.ImportJob, error)
	GetByID(dbc dbctx.Context, id uuid.UUID, ownerScope *uuid.UUID) (*types.ImportJob, error)
	// MarkCompleted and MarkFailed perform the single terminal transition.
	// Status and result/error land in one guarded UPDATE; the returned bool
	// is false when the job was already terminal (the transition is a no-op).
	MarkCompleted(dbc dbctx.Context, id uuid.UUID, resultData datatypes.JSON) (bool, error)
	MarkFailed(dbc dbctx.Context, id uuid.UUID, errorMessage string) (bool, error)
}

type importJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportJobRepo(db *gorm.DB, baseLog *logger.Logger) ImportJobRepo {
	return &importJobRepo{db: db, log: baseLog.With("repo", "ImportJobRepo")}
}

func (r *importJobRepo) Create(dbc dbctx.Context, jobs []*types.ImportJob) ([]*types.ImportJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(jobs) == 0 {
		return []*types.ImportJob{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *importJobRepo) GetByID(dbc dbctx.Context, id uuid.UUID, ownerScope *uuid.UUID) (*types.ImportJob, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("id = ?", id)
	if ownerScope != nil {
		q = q.Where("author_id = ?", *ownerScope)
	}
	var job types.ImportJob
	if err := q.First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *importJobRepo) MarkCompleted(dbc dbctx.Context, id uuid.UUID, resultData datatypes.JSON) (bool, error) {
	return r.transition(dbc, id, map[string]interface{}{
		"status":      types.ImportJobStatusCompleted,
		"result_data": resultData,
		"updated_at":  time.Now(),
	})
}

func (r *importJobRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, errorMessage string) (bool, error) {
	return r.transition(dbc, id, map[string]interface{}{
		"status":        types.ImportJobStatusFailed,
		"error_message": errorMessage,
		"updated_at":    time.Now(),
	})
}

func (r *importJobRepo) transition(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.ImportJob{}).
		Where("id = ? AND status = ?", id, types.ImportJobStatusProcessing).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
