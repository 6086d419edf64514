package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KlausJCB/MaterialPassportTool/internal/http/response"
	"github.com/KlausJCB/MaterialPassportTool/internal/pkg/apierr"
	"github.com/KlausJCB/MaterialPassportTool/internal/services"
)

type ComponentHandler struct {
	componentService services.ComponentService
}

func NewComponentHandler(componentService services.ComponentService) *ComponentHandler {
	return &ComponentHandler{componentService: componentService}
}

func (ch *ComponentHandler) List(c *gin.Context) {
	components, err := ch.componentService.List(c.Request.Context())
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, components)
}

func (ch *ComponentHandler) Create(c *gin.Context) {
	var in services.ComponentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	component, err := ch.componentService.Create(c.Request.Context(), &in)
	if err != nil {
		status, code := apierr.Resolve(err)
		response.RespondError(c, status, code, err)
		return
	}
	c.JSON(http.StatusCreated, component)
}
