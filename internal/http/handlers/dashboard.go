package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/KlausJCB/MaterialPassportTool/internal/http/response"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/services"
)

type DashboardHandler struct {
	statsService services.StatsService
}

func NewDashboardHandler(statsService services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	stats, err := dh.statsService.Dashboard(c.Request.Context())
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, stats)
}
