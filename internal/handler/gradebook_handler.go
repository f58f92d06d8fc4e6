package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradeview-api/internal/dto"
	"github.com/noah-isme/gradeview-api/internal/service"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/response"
)

// GradebookHandler serves the computed gradebook view. The view always
// includes the working what-if edits; a client that wants the pristine
// portal state resets the edit list first.
type GradebookHandler struct {
	whatIf *service.WhatIfService
}

// NewGradebookHandler creates a new handler.
func NewGradebookHandler(whatIf *service.WhatIfService) *GradebookHandler {
	return &GradebookHandler{whatIf: whatIf}
}

// Get godoc
// @Summary Computed gradebook
// @Description Gradebook with derived scores, letters and GPA for one reporting period
// @Tags Gradebook
// @Produce json
// @Param period query int false "Reporting period index (defaults to the portal's current one)"
// @Param refresh query bool false "Bypass the cached snapshot"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /gradebook [get]
func (h *GradebookHandler) Get(c *gin.Context) {
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

	marks, cached, err := h.whatIf.Snapshot(c.Request.Context(), session, period, refreshFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.NewGradebookResponse(marks), nil, map[string]interface{}{
		"cached": cached,
	})
}
