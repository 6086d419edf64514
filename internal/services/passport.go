package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/authz"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/domain/passport"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
	"github.com/KlausJCB/MaterialPassportTool/internal/requestdata"
)

// PassportInput is the boundary shape for create and update. Nil means
// "not provided": updates only touch the fields the client sent.
type PassportInput struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Status   *string `json:"status"`

	Density          *string `json:"density"`
	Volume           *string `json:"volume"`
	StrengthClass    *string `json:"strength_class"`
	ServiceLife      *int    `json:"service_life"`
	FireResistance   *string `json:"fire_resistance"`
	ContentReference *string `json:"content_reference"`

	Constituents    *[]types.Constituent `json:"constituents"`
	SvhcFlag        *bool                `json:"svhc_flag"`
	ReachCompliance *bool                `json:"reach_compliance"`
	VocClass        *string              `json:"voc_class"`

	Gtin          *string `json:"gtin"`
	Ean           *string `json:"ean"`
	Cas           *string `json:"cas"`
	Manufacturer  *string `json:"manufacturer"`
	BomObjectGuid *string `json:"bom_object_guid"`

	DisassemblyRating       *string `json:"disassembly_rating"`
	RecyclabilityPercentage *string `json:"recyclability_percentage"`

	GwpA1           *string `json:"gwp_a1"`
	GwpA2           *string `json:"gwp_a2"`
	GwpA3           *string `json:"gwp_a3"`
	StageDReduction *string `json:"stage_d_reduction"`

	Odp                    *string `json:"odp"`
	AcidificationPotential *string `json:"acidification_potential"`
}

// PassportView is a passport plus its server-computed completion, so the UI
// gating and the stored status always agree.
type PassportView struct {
	*types.MaterialPassport
	Completion passport.Completion `json:"completion"`
}

type PassportService interface {
	List(ctx context.Context) ([]*PassportView, error)
	Get(ctx context.Context, id uuid.UUID) (*PassportView, error)
	Create(ctx context.Context, in *PassportInput) (*PassportView, error)
	Update(ctx context.Context, id uuid.UUID, in *PassportInput) (*PassportView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExportBamb(ctx context.Context, id uuid.UUID) (*BambExport, error)
}

type passportService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.PassportRepo
}

func NewPassportService(db *gorm.DB, baseLog *logger.Logger, repo repos.PassportRepo) PassportService {
	return &passportService{
		db:   db,
		log:  baseLog.With("service", "PassportService"),
		repo: repo,
	}
}

func (s *passportService) List(ctx context.Context) ([]*PassportView, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpPassportRead) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not read passports", rd.Role))
	}
	records, err := s.repo.List(dbctx.Context{Ctx: ctx}, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("list passports: %w", err)
	}
	views := make([]*PassportView, 0, len(records))
	for _, p := range records {
		views = append(views, viewOf(p))
	}
	return views, nil
}

func (s *passportService) Get(ctx context.Context, id uuid.UUID) (*PassportView, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpPassportRead) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not read passports", rd.Role))
	}
	p, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("get passport: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("passport_not_found", fmt.Errorf("passport %s not found", id))
	}
	return viewOf(p), nil
}

func (s *passportService) Create(ctx context.Context, in *PassportInput) (*PassportView, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpPassportCreate) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not create passports", rd.Role))
	}
	if in == nil || in.Name == nil || *in.Name == "" {
		return nil, apierr.Validation("missing_name", fmt.Errorf("name is required"))
	}
	if in.Category == nil || *in.Category == "" {
		return nil, apierr.Validation("missing_category", fmt.Errorf("category is required"))
	}

	p := &types.MaterialPassport{
		ID:       uuid.New(),
		Status:   types.PassportStatusDraft,
		AuthorID: rd.UserID,
	}
	if err := applyInput(p, in); err != nil {
		return nil, err
	}
	if err := deriveAndGrade(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.Create(dbctx.Context{Ctx: ctx}, []*types.MaterialPassport{p}); err != nil {
		return nil, fmt.Errorf("create passport: %w", err)
	}
	return viewOf(p), nil
}

func (s *passportService) Update(ctx context.Context, id uuid.UUID, in *PassportInput) (*PassportView, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpPassportUpdate) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not edit passports", rd.Role))
	}
	p, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("get passport: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("passport_not_found", fmt.Errorf("passport %s not found", id))
	}
	if !authz.CanMutateResource(rd.Role, p.AuthorID, rd.UserID) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("not the passport owner"))
	}
	if err := applyInput(p, in); err != nil {
		return nil, err
	}
	// Derivation runs against the merged record, so a partial update that
	// touches only one contributing field still recomputes from current
	// values of the others.
	if err := deriveAndGrade(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.Save(dbctx.Context{Ctx: ctx}, p); err != nil {
		return nil, fmt.Errorf("save passport: %w", err)
	}
	return viewOf(p), nil
}

func (s *passportService) Delete(ctx context.Context, id uuid.UUID) error {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(rd.Role, authz.OpPassportDelete) {
		return apierr.Forbidden("forbidden", fmt.Errorf("only authors may delete passports"))
	}
	deleted, err := s.repo.FullDeleteByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return fmt.Errorf("delete passport: %w", err)
	}
	if !deleted {
		return apierr.NotFound("passport_not_found", fmt.Errorf("passport %s not found", id))
	}
	return nil
}

func (s *passportService) ExportBamb(ctx context.Context, id uuid.UUID) (*BambExport, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpPassportExport) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not export passports", rd.Role))
	}
	p, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("get passport: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("passport_not_found", fmt.Errorf("passport %s not found", id))
	}
	return BuildBambExport(p), nil
}

func viewOf(p *types.MaterialPassport) *PassportView {
	return &PassportView{
		MaterialPassport: p,
		Completion:       passport.ComputeCompletion(p),
	}
}

// deriveAndGrade recomputes derived fields and the status on every write.
func deriveAndGrade(p *types.MaterialPassport) error {
	if err := passport.Derive(p); err != nil {
		if errors.Is(err, passport.ErrInvalidNumber) {
			return apierr.Validation("invalid_number", err)
		}
		return err
	}
	p.Status = passport.DeriveStatus(p, passport.ComputeCompletion(p))
	return nil
}

func applyInput(p *types.MaterialPassport, in *PassportInput) error {
	if in == nil {
		return nil
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Status != nil {
		switch *in.Status {
		case types.PassportStatusDraft, types.PassportStatusComplete, types.PassportStatusPublished:
			p.Status = *in.Status
		default:
			return apierr.Validation("invalid_status", fmt.Errorf("unknown status %q", *in.Status))
		}
	}
	if in.Density != nil {
		p.Density = in.Density
	}
	if in.Volume != nil {
		p.Volume = in.Volume
	}
	if in.StrengthClass != nil {
		p.StrengthClass = in.StrengthClass
	}
	if in.ServiceLife != nil {
		p.ServiceLife = in.ServiceLife
	}
	if in.FireResistance != nil {
		p.FireResistance = in.FireResistance
	}
	if in.ContentReference != nil {
		p.ContentReference = in.ContentReference
	}
	if in.Constituents != nil {
		enc, err := passport.EncodeConstituents(*in.Constituents)
		if err != nil {
			return apierr.Validation("invalid_constituents", err)
		}
		p.Constituents = enc
	}
	if in.SvhcFlag != nil {
		p.SvhcFlag = *in.SvhcFlag
	}
	if in.ReachCompliance != nil {
		p.ReachCompliance = *in.ReachCompliance
	}
	if in.VocClass != nil {
		p.VocClass = in.VocClass
	}
	if in.Gtin != nil {
		p.Gtin = in.Gtin
	}
	if in.Ean != nil {
		p.Ean = in.Ean
	}
	if in.Cas != nil {
		p.Cas = in.Cas
	}
	if in.Manufacturer != nil {
		p.Manufacturer = in.Manufacturer
	}
	if in.BomObjectGuid != nil {
		p.BomObjectGuid = in.BomObjectGuid
	}
	if in.DisassemblyRating != nil {
		p.DisassemblyRating = in.DisassemblyRating
	}
	if in.RecyclabilityPercentage != nil {
		p.RecyclabilityPercentage = in.RecyclabilityPercentage
	}
	if in.GwpA1 != nil {
		p.GwpA1 = in.GwpA1
	}
	if in.GwpA2 != nil {
		p.GwpA2 = in.GwpA2
	}
	if in.GwpA3 != nil {
		p.GwpA3 = in.GwpA3
	}
	if in.StageDReduction != nil {
		p.StageDReduction = in.StageDReduction
	}
	if in.Odp != nil {
		p.Odp = in.Odp
	}
	if in.AcidificationPotential != nil {
		p.AcidificationPotential = in.AcidificationPotential
	}
	return nil
}

func requireRequestUser(ctx context.Context) (*requestdata.RequestData, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	return rd, nil
}
