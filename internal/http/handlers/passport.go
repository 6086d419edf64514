package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KlausJCB/MaterialPassportTool/internal/http/response"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/services"
)

type PassportHandler struct {
	passportService services.PassportService
}

func NewPassportHandler(passportService services.PassportService) *PassportHandler {
	return &PassportHandler{passportService: passportService}
}

func (ph *PassportHandler) List(c *gin.Context) {
	passports, err := ph.passportService.List(c.Request.Context())
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, passports)
}

func (ph *PassportHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	pv, err := ph.passportService.Get(c.Request.Context(), id)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, pv)
}

func (ph *PassportHandler) Create(c *gin.Context) {
	var in services.PassportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pv, err := ph.passportService.Create(c.Request.Context(), &in)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusCreated, pv)
}

func (ph *PassportHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var in services.PassportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pv, err := ph.passportService.Update(c.Request.Context(), id, &in)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, pv)
}

func (ph *PassportHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ph.passportService.Delete(c.Request.Context(), id); err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportBamb serves the passport as a BAMB-aligned JSON attachment.
func (ph *PassportHandler) ExportBamb(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	export, err := ph.passportService.ExportBamb(c.Request.Context(), id)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("passport-%s.json", id)))
	c.JSON(http.StatusOK, export)
}
