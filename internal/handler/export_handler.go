package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradeview-api/internal/service"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/response"
)

// ExportHandler streams rendered report cards.
type ExportHandler struct {
	whatIf *service.WhatIfService
	export *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(whatIf *service.WhatIfService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{whatIf: whatIf, export: export}
}

// ReportCard godoc
// @Summary Download a report card
// @Description Render the current snapshot (working edits included) as CSV or PDF
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Param period query int false "Reporting period index"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /export/report-card [get]
func (h *ExportHandler) ReportCard(c *gin.Context) {
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

	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))

	marks, _, err := h.whatIf.Snapshot(c.Request.Context(), session, period, false)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.export.ReportCard(marks, session.StudentName, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Download(c, result.Filename, result.ContentType, result.Payload)
}
