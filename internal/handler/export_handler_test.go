package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandlerReportCardCSV(t *testing.T) {
	stack := newTestStack()
	handler := NewExportHandler(stack.whatIf, stack.export)

	c, w := authedContext(t, http.MethodGet, "/export/report-card?format=csv", nil)
	handler.ReportCard(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Algebra 1,2,J. Rivera,204,87.02,B")
}

func TestExportHandlerReportCardPDF(t *testing.T) {
	stack := newTestStack()
	handler := NewExportHandler(stack.whatIf, stack.export)

	c, w := authedContext(t, http.MethodGet, "/export/report-card?format=pdf", nil)
	handler.ReportCard(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestExportHandlerUnsupportedFormat(t *testing.T) {
	stack := newTestStack()
	handler := NewExportHandler(stack.whatIf, stack.export)

	c, w := authedContext(t, http.MethodGet, "/export/report-card?format=xlsx", nil)
	handler.ReportCard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
