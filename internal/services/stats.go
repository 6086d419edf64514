package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/authz"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type DashboardStats struct {
	TotalPassports  int64 `json:"totalPassports"`
	Completed       int64 `json:"completed"`
	InProgress      int64 `json:"inProgress"`
	TotalComponents int64 `json:"totalComponents"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	db         *gorm.DB
	log        *logger.Logger
	passports  repos.PassportRepo
	components repos.ComponentRepo
}

func NewStatsService(db *gorm.DB, baseLog *logger.Logger, passports repos.PassportRepo, components repos.ComponentRepo) StatsService {
	return &statsService{
		db:         db,
		log:        baseLog.With("service", "StatsService"),
		passports:  passports,
		components: components,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpStatsRead) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not read stats", rd.Role))
	}
	scope := authz.OwnerScope(rd.Role, rd.UserID)

	var (
		counts     repos.PassportStatusCounts
		components int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.passports.CountByStatus(dbctx.Context{Ctx: gctx}, scope)
		return err
	})
	g.Go(func() error {
		var err error
		components, err = s.components.Count(dbctx.Context{Ctx: gctx}, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &DashboardStats{
		TotalPassports:  counts.Total,
		Completed:       counts.Completed,
		InProgress:      counts.InProgress,
		TotalComponents: components,
	}, nil
}
