package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/authz"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

type ComponentInput struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	IfcGuid     *string    `json:"ifc_guid"`
	PassportID  *uuid.UUID `json:"passport_id"`
}

type ComponentService interface {
	List(ctx context.Context) ([]*types.Component, error)
	Create(ctx context.Context, in *ComponentInput) (*types.Component, error)
}

type componentService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ComponentRepo
}

func NewComponentService(db *gorm.DB, baseLog *logger.Logger, repo repos.ComponentRepo) ComponentService {
	return &componentService{
		db:   db,
		log:  baseLog.With("service", "ComponentService"),
		repo: repo,
	}
}

func (s *componentService) List(ctx context.Context) ([]*types.Component, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpComponentRead) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not read components", rd.Role))
	}
	out, err := s.repo.List(dbctx.Context{Ctx: ctx}, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return out, nil
}

func (s *componentService) Create(ctx context.Context, in *ComponentInput) (*types.Component, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpComponentCreate) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not create components", rd.Role))
	}
	if in == nil || in.Name == "" {
		return nil, apierr.Validation("missing_name", fmt.Errorf("name is required"))
	}
	if in.Category == "" {
		return nil, apierr.Validation("missing_category", fmt.Errorf("category is required"))
	}
	c := &types.Component{
		ID:          uuid.New(),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		IfcGuid:     in.IfcGuid,
		PassportID:  in.PassportID,
		AuthorID:    rd.UserID,
	}
	if _, err := s.repo.Create(dbctx.Context{Ctx: ctx}, []*types.Component{c}); err != nil {
		return nil, fmt.Errorf("create component: %w", err)
	}
	return c, nil
}
