package dto

import (
	"math"
	"strings"
	"time"

	"github.com/noah-isme/gradeview-api/internal/gradebook"
	"github.com/noah-isme/gradeview-api/internal/portal"
)

// The gradebook view types are the JSON projection of the engine
// model. The engine uses NaN for "no grade available"; NaN does not
// survive JSON encoding, so every derived number crosses the wire as a
// nullable pointer where nil means undefined.

// GradebookResponse is the full gradebook view for one reporting period.
type GradebookResponse struct {
	GPA              *float64     `json:"gpa"`
	ReportingPeriod  PeriodView   `json:"reportingPeriod"`
	ReportingPeriods []PeriodView `json:"reportingPeriods,omitempty"`
	Courses          []CourseView `json:"courses"`
}

// PeriodView identifies one reporting period.
type PeriodView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// CourseView is one course with its derived score and display hints.
type CourseView struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"displayName"`
	Period      int              `json:"period"`
	Teacher     string           `json:"teacher,omitempty"`
	Email       string           `json:"teacherEmail,omitempty"`
	Room        string           `json:"room,omitempty"`
	Value       *float64         `json:"value"`
	Letter      string           `json:"letter,omitempty"`
	TextColor   string           `json:"textColor,omitempty"`
	BarColor    string           `json:"barColor,omitempty"`
	Categories  []CategoryView   `json:"categories,omitempty"`
	Assignments []AssignmentView `json:"assignments,omitempty"`
}

// CategoryView is one weighted grading bucket.
type CategoryView struct {
	Name   string   `json:"name"`
	Weight *float64 `json:"weight"`
	Points float64  `json:"points"`
	Total  float64  `json:"total"`
	Value  *float64 `json:"value"`
	Letter string   `json:"letter,omitempty"`
	Show   bool     `json:"show"`
}

// AssignmentView is one gradable item.
type AssignmentView struct {
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Status   string     `json:"status"`
	Notes    string     `json:"notes,omitempty"`
	Points   *float64   `json:"points"`
	Total    *float64   `json:"total"`
	Modified bool       `json:"modified"`
	Due      *time.Time `json:"due,omitempty"`
	Start    *time.Time `json:"start,omitempty"`
}

// NewGradebookResponse projects an engine snapshot into its JSON view.
func NewGradebookResponse(marks gradebook.Marks) GradebookResponse {
	resp := GradebookResponse{
		GPA:             nanSafe(marks.GPA),
		ReportingPeriod: newPeriodView(marks.ReportingPeriod),
		Courses:         make([]CourseView, 0, len(marks.Courses)),
	}
	for _, period := range marks.ReportingPeriods {
		resp.ReportingPeriods = append(resp.ReportingPeriods, newPeriodView(period))
	}
	for _, course := range marks.Courses {
		resp.Courses = append(resp.Courses, newCourseView(course))
	}
	return resp
}

func newPeriodView(period portal.Period) PeriodView {
	return PeriodView{Index: period.Index, Name: period.Name, Start: period.Start, End: period.End}
}

func newCourseView(course gradebook.Course) CourseView {
	view := CourseView{
		Name:        course.Name,
		DisplayName: strings.TrimSpace(gradebook.ParseCourseName(course.Name)),
		Period:      course.Period,
		Teacher:     course.Teacher.Name,
		Email:       course.Teacher.Email,
		Room:        course.Room,
		Value:       nanSafe(course.Value),
	}
	if !math.IsNaN(course.Value) {
		view.Letter = gradebook.LetterGrade(course.Value)
		view.TextColor = gradebook.TextColor(course.Value)
		view.BarColor = gradebook.BarColor(course.Value)
	}
	for _, category := range course.Categories {
		view.Categories = append(view.Categories, newCategoryView(category))
	}
	for _, assignment := range course.Assignments {
		view.Assignments = append(view.Assignments, newAssignmentView(assignment))
	}
	return view
}

func newCategoryView(category gradebook.Category) CategoryView {
	view := CategoryView{
		Name:   category.Name,
		Weight: nanSafe(category.Weight),
		Points: category.Points,
		Total:  category.Total,
		Value:  nanSafe(category.Value),
		Show:   category.Show,
	}
	if !math.IsNaN(category.Value) {
		view.Letter = gradebook.LetterGrade(category.Value)
	}
	return view
}

func newAssignmentView(assignment gradebook.Assignment) AssignmentView {
	return AssignmentView{
		Name:     assignment.Name,
		Category: assignment.Category,
		Status:   assignment.Status,
		Notes:    assignment.Notes,
		Points:   nanSafe(assignment.Points),
		Total:    nanSafe(assignment.Total),
		Modified: assignment.Modified,
		Due:      timeOrNil(assignment.Date.Due),
		Start:    timeOrNil(assignment.Date.Start),
	}
}

func nanSafe(value float64) *float64 {
	if math.IsNaN(value) {
		return nil
	}
	return &value
}

func timeOrNil(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	return &value
}
