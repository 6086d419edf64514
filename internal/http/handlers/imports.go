package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KlausJCB/MaterialPassportTool/internal/http/response"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/logger"
	"github.com/KlausJCB/MaterialPassportTool/internal/services"
)

type ImportHandler struct {
	log            *logger.Logger
	importService  services.ImportService
	maxUploadBytes int64
}

func NewImportHandler(log *logger.Logger, importService services.ImportService, maxUploadBytes int64) *ImportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 100 << 20
	}
	return &ImportHandler{
		log:            log.With("handler", "ImportHandler"),
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

func (ih *ImportHandler) ImportExcel(c *gin.Context) {
	filename, file, ok := ih.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := ih.importService.ImportExcel(c.Request.Context(), filename, file)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{
		"jobId":   result.Job.ID,
		"message": result.Message,
		"data":    result.Data,
	})
}

func (ih *ImportHandler) ImportCSV(c *gin.Context) {
	filename, file, ok := ih.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := ih.importService.ImportCSV(c.Request.Context(), filename, file)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{
		"jobId":   result.Job.ID,
		"message": result.Message,
		"data":    result.Data,
	})
}

func (ih *ImportHandler) ImportIFC(c *gin.Context) {
	filename, file, ok := ih.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	// The parser runs after the response is sent, so the bytes are read here.
	data, err := io.ReadAll(file)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	job, err := ih.importService.ImportIFC(c.Request.Context(), filename, data)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"jobId":   job.ID,
		"status":  job.Status,
		"message": "IFC file is being processed",
	})
}

func (ih *ImportHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	job, err := ih.importService.GetJob(c.Request.Context(), id)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, job)
}

func (ih *ImportHandler) PromoteComponents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Selections []string   `json:"selections"`
		PassportID *uuid.UUID `json:"passport_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := ih.importService.PromoteComponents(c.Request.Context(), id, req.Selections, req.PassportID)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"components": created})
}

// openUpload extracts the single "file" form field. A false return means the
// error response was already written.
func (ih *ImportHandler) openUpload(c *gin.Context) (string, io.ReadCloser, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ih.maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return "", nil, false
	}
	file, err := fh.Open()
	if err != nil {
		ih.log.Error("cannot open uploaded file", "filename", fh.Filename, "error", err)
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return "", nil, false
	}
	return fh.Filename, file, true
}
