package gradebook

import (
	"strings"
	"time"

	"github.com/noah-isme/gradeview-api/internal/portal"
)

const totalCategoryType = "total"

var assignmentDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
}

// Normalize converts a raw portal gradebook into a fully computed
// Marks model. The raw payload is never mutated; the returned value is
// consistent (all derived fields populated) and ready for the mutation
// operations.
func Normalize(raw *portal.Gradebook) Marks {
	marks := Marks{
		GPA:             nan(),
		Courses:         make([]Course, 0, len(raw.Courses)),
		ReportingPeriod: raw.ReportingPeriod.Current,
	}
	if raw.ReportingPeriod.Available != nil {
		marks.ReportingPeriods = append([]portal.Period(nil), raw.ReportingPeriod.Available...)
	}

	for _, rawCourse := range raw.Courses {
		course := Course{
			Name:   rawCourse.Title,
			Period: rawCourse.Period,
			Teacher: Teacher{
				Name:  rawCourse.Staff.Name,
				Email: rawCourse.Staff.Email,
			},
			Room:  rawCourse.Room,
			Value: nan(),
		}
		if len(rawCourse.Marks) > 0 {
			course.Categories = normalizeCategories(rawCourse.Marks[0].WeightedCategories)
			course.Assignments = normalizeAssignments(rawCourse.Marks[0].Assignments)
		}
		marks.Courses = append(marks.Courses, course)
	}

	return Recompute(marks)
}

func normalizeCategories(raw []portal.WeightedCategory) []Category {
	categories := make([]Category, 0, len(raw))
	for _, entry := range raw {
		if strings.EqualFold(entry.Type, totalCategoryType) {
			continue
		}
		categories = append(categories, Category{
			Name:   entry.Type,
			Weight: parseFloatPrefix(entry.Weight.Standard),
			Points: 0,
			Total:  0,
			Value:  nan(),
			Show:   true,
		})
	}
	return categories
}

func normalizeAssignments(raw []portal.Assignment) []Assignment {
	assignments := make([]Assignment, 0, len(raw))
	for _, entry := range raw {
		points, total := ParsePoints(entry.Points)
		status := StatusGraded
		if entry.Score.Value == "Not Graded" || entry.Score.Value == "Not Due" {
			status = entry.Score.Value
		}
		assignments = append(assignments, Assignment{
			Name:     entry.Name,
			Category: entry.Type,
			Status:   status,
			Notes:    entry.Notes,
			Points:   points,
			Total:    total,
			Modified: false,
			Date: AssignmentDate{
				Due:   parseAssignmentDate(entry.Date.Due),
				Start: parseAssignmentDate(entry.Date.Start),
			},
		})
	}
	return assignments
}

// parseAssignmentDate is best effort; an unparseable date yields the
// zero time rather than an error since dates never feed aggregation.
func parseAssignmentDate(raw string) time.Time {
	for _, layout := range assignmentDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
