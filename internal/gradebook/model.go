// Package gradebook implements the pure grade-calculation engine: it
// normalizes a raw portal gradebook into an in-memory model, recomputes
// weighted category and course scores after every edit, and maps scores
// to letter grades and GPA points. The package performs no I/O; all
// state lives in the Marks value owned by the caller.
package gradebook

import (
	"math"
	"time"

	"github.com/noah-isme/gradeview-api/internal/portal"
)

// ScoreField selects which side of an assignment score an edit targets.
type ScoreField string

const (
	// FieldEarned targets the points earned.
	FieldEarned ScoreField = "earned"
	// FieldTotal targets the points possible.
	FieldTotal ScoreField = "total"
)

// StatusGraded is the status assigned to assignments that carry a
// parsed score and to every user-added assignment.
const StatusGraded = "Graded"

// Teacher identifies a course's teacher.
type Teacher struct {
	Name  string
	Email string
}

// AssignmentDate carries the due and start dates of an assignment.
type AssignmentDate struct {
	Due   time.Time
	Start time.Time
}

// Assignment is one gradable item. Points and Total use NaN as the
// "ungraded / unset" sentinel.
type Assignment struct {
	Name     string
	Category string
	Status   string
	Notes    string
	Points   float64
	Total    float64
	Modified bool
	Date     AssignmentDate
}

// Category is a weighted grading bucket within a course. Weight comes
// from the school and is never recomputed; Points, Total and Value are
// derived by Recompute. Value is NaN when no assignment in the bucket
// has both points and total defined.
type Category struct {
	Name   string
	Weight float64
	Points float64
	Total  float64
	Value  float64
	Show   bool
}

// Course is one class section. Value is the derived overall percentage,
// NaN when no visible category contributes. Assignment order is the
// source order; additions prepend, deletions keep relative order.
// Categories is nil when the source provided none.
type Course struct {
	Name        string
	Period      int
	Teacher     Teacher
	Room        string
	Value       float64
	Assignments []Assignment
	Categories  []Category
}

// Marks is the root model for one reporting period. Course order is the
// source order; course names are unique. GPA is derived by Recompute
// and is NaN when no course has a defined score. Reporting-period
// metadata passes through from the raw source untouched.
type Marks struct {
	GPA              float64
	Courses          []Course
	ReportingPeriod  portal.Period
	ReportingPeriods []portal.Period
}

// Course returns a pointer to the named course, or nil.
func (m *Marks) Course(name string) *Course {
	for i := range m.Courses {
		if m.Courses[i].Name == name {
			return &m.Courses[i]
		}
	}
	return nil
}

// Category returns a pointer to the named category, or nil.
func (c *Course) Category(name string) *Category {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i]
		}
	}
	return nil
}

// Assignment returns a pointer to the first assignment with the given
// name, or nil.
func (c *Course) Assignment(name string) *Assignment {
	for i := range c.Assignments {
		if c.Assignments[i].Name == name {
			return &c.Assignments[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the model. Snapshots returned by the
// mutation operations never share backing storage with their inputs, so
// a retained previous Marks can never observe a later edit.
func (m Marks) Clone() Marks {
	clone := m
	clone.Courses = make([]Course, len(m.Courses))
	for i, course := range m.Courses {
		clone.Courses[i] = course.clone()
	}
	if m.ReportingPeriods != nil {
		clone.ReportingPeriods = append([]portal.Period(nil), m.ReportingPeriods...)
	}
	return clone
}

func (c Course) clone() Course {
	clone := c
	if c.Assignments != nil {
		clone.Assignments = append([]Assignment(nil), c.Assignments...)
	}
	if c.Categories != nil {
		clone.Categories = append([]Category(nil), c.Categories...)
	}
	return clone
}

func nan() float64 {
	return math.NaN()
}
