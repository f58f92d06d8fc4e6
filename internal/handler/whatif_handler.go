package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradeview-api/internal/dto"
	"github.com/noah-isme/gradeview-api/internal/models"
	"github.com/noah-isme/gradeview-api/internal/service"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/response"
)

// WhatIfHandler exposes hypothetical-grade editing and scenario
// management endpoints.
type WhatIfHandler struct {
	service *service.WhatIfService
}

// NewWhatIfHandler creates a new handler.
func NewWhatIfHandler(svc *service.WhatIfService) *WhatIfHandler {
	return &WhatIfHandler{service: svc}
}

// ApplyEdit godoc
// @Summary Apply a hypothetical edit
// @Description Apply one edit on top of the working snapshot and return the recomputed gradebook
// @Tags WhatIf
// @Accept json
// @Produce json
// @Param period query int false "Reporting period index"
// @Param payload body models.WhatIfEdit true "Edit"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/edits [post]
func (h *WhatIfHandler) ApplyEdit(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var edit models.WhatIfEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edit payload"))
		return
	}

	marks, err := h.service.ApplyEdit(c.Request.Context(), session, period, edit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGradebookResponse(marks), nil)
}

// Reset godoc
// @Summary Discard working edits
// @Tags WhatIf
// @Produce json
// @Param period query int false "Reporting period index"
// @Success 204 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/edits [delete]
func (h *WhatIfHandler) Reset(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.service.Reset(c.Request.Context(), session, period)
	response.NoContent(c)
}

// SaveScenario godoc
// @Summary Save the working edits as a named scenario
// @Tags WhatIf
// @Accept json
// @Produce json
// @Param period query int false "Reporting period index"
// @Param payload body dto.SaveScenarioRequest true "Scenario name"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/scenarios [post]
func (h *WhatIfHandler) SaveScenario(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SaveScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "scenario name required"))
		return
	}

	scenario, err := h.service.SaveScenario(c.Request.Context(), session, period, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewScenarioView(*scenario))
}

// ListScenarios godoc
// @Summary List saved scenarios
// @Tags WhatIf
// @Produce json
// @Param period query int false "Filter by reporting period index"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/scenarios [get]
func (h *WhatIfHandler) ListScenarios(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page := 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}

	scenarios, pagination, err := h.service.ListScenarios(c.Request.Context(), session, period, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewScenarioViews(scenarios), pagination)
}

// UpdateScenario godoc
// @Summary Overwrite a scenario with the working edits
// @Tags WhatIf
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID"
// @Param payload body dto.UpdateScenarioRequest false "New name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/scenarios/{id} [put]
func (h *WhatIfHandler) UpdateScenario(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	scenario, err := h.service.UpdateScenario(c.Request.Context(), session, c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewScenarioView(*scenario), nil)
}

// LoadScenario godoc
// @Summary Load a scenario into the working edit list
// @Description Replaces the working edits and returns the recomputed gradebook for the scenario's period
// @Tags WhatIf
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/scenarios/{id}/load [post]
func (h *WhatIfHandler) LoadScenario(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	marks, scenario, err := h.service.LoadScenario(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGradebookResponse(marks), nil, map[string]interface{}{
		"scenario_id":      scenario.ID,
		"scenario_name":    scenario.Name,
		"reporting_period": scenario.ReportingPeriod,
	})
}

// DeleteScenario godoc
// @Summary Delete a saved scenario
// @Tags WhatIf
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /whatif/scenarios/{id} [delete]
func (h *WhatIfHandler) DeleteScenario(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.DeleteScenario(c.Request.Context(), session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
