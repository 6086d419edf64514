package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/KlausJCB/MaterialPassportTool/internal/authz"
	"github.com/KlausJCB/MaterialPassportTool/internal/data/repos"
	types "github.com/KlausJCB/MaterialPassportTool/internal/domain"
	"github.com/KlausJCB/MaterialPassportTool/internal/ingestion"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/dbctx"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
)

// SyncImportResult is the response body of the synchronous import paths.
type SyncImportResult struct {
	Job     *types.ImportJob `json:"job"`
	Message string           `json:"message"`
	Data    []ingestion.Row  `json:"data"`
}

type ImportService interface {
	// ImportExcel and ImportCSV parse in-request and return a terminal job.
	ImportExcel(ctx context.Context, filename string, file io.Reader) (*SyncImportResult, error)
	ImportCSV(ctx context.Context, filename string, file io.Reader) (*SyncImportResult, error)
	// ImportIFC returns a processing job immediately; the parser runs in the
	// background under a bounded timeout and the client polls GetJob.
	ImportIFC(ctx context.Context, filename string, data []byte) (*types.ImportJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.ImportJob, error)
	PromoteComponents(ctx context.Context, jobID uuid.UUID, selections []string, passportID *uuid.UUID) ([]*types.Component, error)

	// Start hands the service its background context; Stop waits for
	// in-flight IFC tasks to finish their terminal transition.
	Start(ctx context.Context)
	Stop()
}

type importService struct {
	db         *gorm.DB
	log        *logger.Logger
	jobs       repos.ImportJobRepo
	components repos.ComponentRepo
	parser     ingestion.IFCParser
	ifcTimeout time.Duration

	mu        sync.Mutex
	workerCtx context.Context
	inflight  sync.WaitGroup
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobs repos.ImportJobRepo,
	components repos.ComponentRepo,
	parser ingestion.IFCParser,
	ifcTimeout time.Duration,
) ImportService {
	if ifcTimeout <= 0 {
		ifcTimeout = 30 * time.Second
	}
	return &importService{
		db:         db,
		log:        baseLog.With("service", "ImportService"),
		jobs:       jobs,
		components: components,
		parser:     parser,
		ifcTimeout: ifcTimeout,
	}
}

func (s *importService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workerCtx = ctx
}

func (s *importService) Stop() {
	s.inflight.Wait()
}

func (s *importService) ImportExcel(ctx context.Context, filename string, file io.Reader) (*SyncImportResult, error) {
	return s.importSync(ctx, types.ImportJobTypeExcel, filename, file, ingestion.ParseExcel, "Failed to process Excel file")
}

func (s *importService) ImportCSV(ctx context.Context, filename string, file io.Reader) (*SyncImportResult, error) {
	return s.importSync(ctx, types.ImportJobTypeCSV, filename, file, ingestion.ParseCSV, "Failed to process CSV file")
}

func (s *importService) importSync(
	ctx context.Context,
	jobType string,
	filename string,
	file io.Reader,
	parse func(io.Reader) ([]ingestion.Row, error),
	failureMessage string,
) (*SyncImportResult, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpImportRun) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not import data", rd.Role))
	}

	job, err := s.createJob(ctx, rd.UserID, jobType, filename)
	if err != nil {
		return nil, err
	}

	rows, parseErr := parse(file)
	if parseErr != nil {
		s.failJob(ctx, job, failureMessage)
		return nil, apierr.Upstream("import_failed", fmt.Errorf("%s: %w", failureMessage, parseErr))
	}

	resultJSON, err := json.Marshal(rows)
	if err != nil {
		s.failJob(ctx, job, failureMessage)
		return nil, apierr.Upstream("import_failed", fmt.Errorf("encode result: %w", err))
	}
	if _, err := s.jobs.MarkCompleted(dbctx.Context{Ctx: ctx}, job.ID, datatypes.JSON(resultJSON)); err != nil {
		return nil, fmt.Errorf("complete import job: %w", err)
	}
	job.Status = types.ImportJobStatusCompleted
	job.ResultData = datatypes.JSON(resultJSON)

	return &SyncImportResult{
		Job:     job,
		Message: fmt.Sprintf("Successfully imported %d rows", len(rows)),
		Data:    rows,
	}, nil
}

func (s *importService) ImportIFC(ctx context.Context, filename string, data []byte) (*types.ImportJob, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpImportRun) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not import data", rd.Role))
	}

	job, err := s.createJob(ctx, rd.UserID, types.ImportJobTypeIFC, filename)
	if err != nil {
		return nil, err
	}

	s.inflight.Add(1)
	go s.runIFC(job.ID, filename, data)

	return job, nil
}

// runIFC drives one IFC job to its terminal state. The parser runs under a
// bounded timeout; any error, including timeout or shutdown, fails the job.
func (s *importService) runIFC(jobID uuid.UUID, filename string, data []byte) {
	defer s.inflight.Done()

	parent := s.backgroundContext()
	ctx, cancel := context.WithTimeout(parent, s.ifcTimeout)
	defer cancel()

	candidates, err := s.parser.Parse(ctx, filename, data)
	if err != nil {
		s.log.Warn("IFC parse failed", "job_id", jobID, "error", err)
		// Terminal transition must not be lost to the cancelled request
		// context, so it runs on a fresh context.
		if _, ferr := s.jobs.MarkFailed(dbctx.Context{Ctx: context.Background()}, jobID, "Failed to process IFC file"); ferr != nil {
			s.log.Error("could not mark IFC job failed", "job_id", jobID, "error", ferr)
		}
		return
	}

	resultJSON, err := json.Marshal(candidates)
	if err != nil {
		if _, ferr := s.jobs.MarkFailed(dbctx.Context{Ctx: context.Background()}, jobID, "Failed to process IFC file"); ferr != nil {
			s.log.Error("could not mark IFC job failed", "job_id", jobID, "error", ferr)
		}
		return
	}
	if _, err := s.jobs.MarkCompleted(dbctx.Context{Ctx: context.Background()}, jobID, datatypes.JSON(resultJSON)); err != nil {
		s.log.Error("could not mark IFC job completed", "job_id", jobID, "error", err)
	}
}

func (s *importService) GetJob(ctx context.Context, id uuid.UUID) (*types.ImportJob, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpImportRead) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not read import jobs", rd.Role))
	}
	job, err := s.jobs.GetByID(dbctx.Context{Ctx: ctx}, id, authz.OwnerScope(rd.Role, rd.UserID))
	if err != nil {
		return nil, fmt.Errorf("get import job: %w", err)
	}
	if job == nil {
		return nil, apierr.NotFound("import_job_not_found", fmt.Errorf("import job %s not found", id))
	}
	return job, nil
}

// PromoteComponents turns selected candidates of a completed IFC job into
// persisted component records owned by the caller. Unknown GUIDs in the
// selection are skipped.
func (s *importService) PromoteComponents(ctx context.Context, jobID uuid.UUID, selections []string, passportID *uuid.UUID) ([]*types.Component, error) {
	rd, err := requireRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(rd.Role, authz.OpComponentCreate) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("role %q may not create components", rd.Role))
	}
	if len(selections) == 0 {
		return nil, apierr.Validation("empty_selection", fmt.Errorf("no components selected"))
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Type != types.ImportJobTypeIFC {
		return nil, apierr.Validation("not_ifc_job", fmt.Errorf("job %s is not an IFC import", jobID))
	}
	if job.Status != types.ImportJobStatusCompleted {
		return nil, apierr.Validation("job_not_completed", fmt.Errorf("job %s is %s", jobID, job.Status))
	}

	var candidates []ingestion.ComponentCandidate
	if err := json.Unmarshal(job.ResultData, &candidates); err != nil {
		return nil, apierr.Upstream("invalid_job_result", fmt.Errorf("decode job result: %w", err))
	}

	selected := make(map[string]bool, len(selections))
	for _, guid := range selections {
		selected[guid] = true
	}

	toCreate := make([]*types.Component, 0, len(selections))
	for _, cand := range candidates {
		if !selected[cand.ExternalGuid] {
			continue
		}
		guid := cand.ExternalGuid
		toCreate = append(toCreate, &types.Component{
			ID:         uuid.New(),
			Name:       cand.Name,
			Category:   cand.MaterialLabel,
			IfcGuid:    &guid,
			PassportID: passportID,
			AuthorID:   rd.UserID,
		})
	}
	if len(toCreate) == 0 {
		return nil, apierr.Validation("no_matching_candidates", fmt.Errorf("selection matched no candidates"))
	}

	created, err := s.components.Create(dbctx.Context{Ctx: ctx}, toCreate)
	if err != nil {
		return nil, fmt.Errorf("promote components: %w", err)
	}
	return created, nil
}

func (s *importService) createJob(ctx context.Context, authorID uuid.UUID, jobType, filename string) (*types.ImportJob, error) {
	if filename == "" {
		return nil, apierr.Validation("missing_file", fmt.Errorf("no file uploaded"))
	}
	job := &types.ImportJob{
		ID:       uuid.New(),
		Type:     jobType,
		Filename: filename,
		Status:   types.ImportJobStatusProcessing,
		AuthorID: authorID,
	}
	if _, err := s.jobs.Create(dbctx.Context{Ctx: ctx}, []*types.ImportJob{job}); err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}
	return job, nil
}

func (s *importService) failJob(ctx context.Context, job *types.ImportJob, message string) {
	if _, err := s.jobs.MarkFailed(dbctx.Context{Ctx: ctx}, job.ID, message); err != nil {
		s.log.Error("could not mark import job failed", "job_id", job.ID, "error", err)
	}
	job.Status = types.ImportJobStatusFailed
	job.ErrorMessage = &message
}

func (s *importService) backgroundContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workerCtx != nil {
		return s.workerCtx
	}
	return context.Background()
}
