package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradeview-api/internal/gradebook"
	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
	"github.com/noah-isme/gradeview-api/pkg/export"
)

// ExportFormat selects the rendered report format.
type ExportFormat string

const (
	// FormatCSV renders a comma separated report card.
	FormatCSV ExportFormat = "csv"
	// FormatPDF renders a printable report card.
	FormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportResult is a rendered report card ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders gradebook snapshots into downloadable report
// cards. Rendering is pure: the snapshot is built upstream (with or
// without what-if edits) and the result streams straight to the
// client, nothing is written to disk.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// ReportCard renders the snapshot for the named student.
func (s *ExportService) ReportCard(marks gradebook.Marks, studentName string, format ExportFormat) (*ExportResult, error) {
	dataset := buildReportCardDataset(marks, studentName)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}

	return &ExportResult{
		Filename:    buildReportFilename(marks, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func buildReportCardDataset(marks gradebook.Marks, studentName string) export.Dataset {
	headers := []string{"Course", "Period", "Teacher", "Room", "Score", "Grade"}
	rows := make([]map[string]string, 0, len(marks.Courses))
	for _, course := range marks.Courses {
		rows = append(rows, map[string]string{
			"Course":  strings.TrimSpace(gradebook.ParseCourseName(course.Name)),
			"Period":  fmt.Sprintf("%d", course.Period),
			"Teacher": course.Teacher.Name,
			"Room":    course.Room,
			"Score":   formatScore(course.Value),
			"Grade":   formatLetter(course.Value),
		})
	}

	summary := []string{fmt.Sprintf("GPA: %s", formatGPA(marks.GPA))}
	if marks.ReportingPeriod.Name != "" {
		summary = append(summary, fmt.Sprintf("Reporting Period: %s", marks.ReportingPeriod.Name))
	}
	summary = append(summary, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))

	title := "Report Card"
	if studentName != "" {
		title = fmt.Sprintf("Report Card - %s", studentName)
	}
	return export.Dataset{Title: title, Headers: headers, Rows: rows, Summary: summary}
}

func buildReportFilename(marks gradebook.Marks, format ExportFormat) string {
	period := strings.ToLower(strings.ReplaceAll(marks.ReportingPeriod.Name, " ", "_"))
	if period == "" {
		period = "current"
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("report_card_%s_%s.%s", period, timestamp, format)
}

// formatScore renders a course mark for humans; an undefined mark (no
// graded work yet) shows as N/A rather than a zero.
func formatScore(value float64) string {
	if math.IsNaN(value) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", value)
}

func formatLetter(value float64) string {
	if math.IsNaN(value) {
		return "N/A"
	}
	return gradebook.LetterGrade(value)
}

func formatGPA(value float64) string {
	if math.IsNaN(value) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", value)
}
