package passports

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

// StatusCounts feeds the dashboard: total, complete and draft passports
// within one owner scope.
type StatusCounts struct {
	Total      int64
	Completed  int64
	InProgress int64
}

type PassportRepo interface {
	Create(dbc dbctx.Context, passports []*types.MaterialPassport) ([]*types.MaterialPassport, error)
	// GetByID applies ownerScope when non-nil; a passport owned by someone
	// else is reported as absent, not forbidden.
	GetByID(dbc dbctx.Context, id uuid.UUID, ownerScope *uuid.UUID) (*types.MaterialPassport, error)
	List(dbc dbctx.Context, ownerScope *uuid.UUID) ([]*types.MaterialPassport, error)
	Save(dbc dbctx.Context, p *types.MaterialPassport) (*types.MaterialPassport, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error)
	CountByStatus(dbc dbctx.Context, ownerScope *uuid.UUID) (StatusCounts, error)
}

type passportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPassportRepo(db *gorm.DB, baseLog *logger.Logger) PassportRepo {
	return &passportRepo{db: db, log: baseLog.With("repo", "PassportRepo")}
}

func (r *passportRepo) Create(dbc dbctx.Context, passports []*types.MaterialPassport) ([]*types.MaterialPassport, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(passports) == 0 {
		return []*types.MaterialPassport{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&passports).Error; err != nil {
		return nil, err
	}
	return passports, nil
}

func (r *passportRepo) GetByID(dbc dbctx.Context, id uuid.UUID, ownerScope *uuid.UUID) (*types.MaterialPassport, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Where("id = ?", id)
	if ownerScope != nil {
		q = q.Where("author_id = ?", *ownerScope)
	}
	var p types.MaterialPassport
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *passportRepo) List(dbc dbctx.Context, ownerScope *uuid.UUID) ([]*types.MaterialPassport, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Order("updated_at DESC")
	if ownerScope != nil {
		q = q.Where("author_id = ?", *ownerScope)
	}
	var out []*types.MaterialPassport
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *passportRepo) Save(dbc dbctx.Context, p *types.MaterialPassport) (*types.MaterialPassport, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *passportRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.MaterialPassport{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *passportRepo) CountByStatus(dbc dbctx.Context, ownerScope *uuid.UUID) (StatusCounts, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(dbc.Ctx).Model(&types.MaterialPassport{})
	if ownerScope != nil {
		base = base.Where("author_id = ?", *ownerScope)
	}

	var counts StatusCounts
	if err := base.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return StatusCounts{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", types.PassportStatusComplete).
		Count(&counts.Completed).Error; err != nil {
		return StatusCounts{}, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", types.PassportStatusDraft).
		Count(&counts.InProgress).Error; err != nil {
		return StatusCounts{}, err
	}
	return counts, nil
}
