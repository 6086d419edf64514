package components

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type ComponentRepo interface {
	Create(dbc dbctx.Context, components []*types.Component) ([]*types.Component, error)
	List(dbc dbctx.Context, ownerScope *uuid.UUID) ([]*types.Component, error)
	Count(dbc dbctx.Context, ownerScope *uuid.UUID) (int64, error)
}

type componentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
	return &componentRepo{db: db, log: baseLog.With("repo", "ComponentRepo")}
}

func (r *componentRepo) Create(dbc dbctx.Context, components []*types.Component) ([]*types.Component, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(components) == 0 {
		return []*types.Component{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

func (r *componentRepo) List(dbc dbctx.Context, ownerScope *uuid.UUID) ([]*types.Component, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Order("created_at DESC")
	if ownerScope != nil {
		q = q.Where("author_id = ?", *ownerScope)
	}
	var out []*types.Component
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *componentRepo) Count(dbc dbctx.Context, ownerScope *uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.Component{})
	if ownerScope != nil {
		q = q.Where("author_id = ?", *ownerScope)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
