package gradebook

import (
	"fmt"
	"strconv"
	"time"

	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

// defaultAssignmentName seeds the unique-name generation for user-added
// assignments: "Assignment", then "Assignment2", "Assignment3", …
const defaultAssignmentName = "Assignment"

// The mutation operations are pure: each deep-copies the input model,
// applies the single edit, recomputes and returns the new snapshot. The
// input Marks stays valid and untouched. A missing course or assignment
// is a precondition violation reported as NotFound.

// UpdatePoints sets the earned points or the possible total of the
// named assignment. value may be NaN when the edit cleared the field.
func UpdatePoints(marks Marks, courseName, assignmentName string, value float64, field ScoreField) (Marks, error) {
	next := marks.Clone()
	course := next.Course(courseName)
	if course == nil {
		return Marks{}, courseNotFound(courseName)
	}
	assignment := course.Assignment(assignmentName)
	if assignment == nil {
		return Marks{}, assignmentNotFound(courseName, assignmentName)
	}
	switch field {
	case FieldTotal:
		assignment.Total = value
	default:
		assignment.Points = value
	}
	assignment.Modified = true
	return Recompute(next), nil
}

// DeleteAssignment removes every assignment carrying the given name,
// preserving the relative order of the rest.
func DeleteAssignment(marks Marks, courseName, assignmentName string) (Marks, error) {
	next := marks.Clone()
	course := next.Course(courseName)
	if course == nil {
		return Marks{}, courseNotFound(courseName)
	}
	if course.Assignment(assignmentName) == nil {
		return Marks{}, assignmentNotFound(courseName, assignmentName)
	}
	kept := course.Assignments[:0]
	for _, assignment := range course.Assignments {
		if assignment.Name != assignmentName {
			kept = append(kept, assignment)
		}
	}
	course.Assignments = kept
	return Recompute(next), nil
}

// AddAssignment prepends a new graded assignment with a generated
// unique name. points and total may be NaN for fields the user left
// blank. The category does not have to exist; an unmatched category
// simply contributes nothing to aggregation.
func AddAssignment(marks Marks, courseName, categoryName string, points, total float64) (Marks, error) {
	next := marks.Clone()
	course := next.Course(courseName)
	if course == nil {
		return Marks{}, courseNotFound(courseName)
	}
	now := time.Now()
	assignment := Assignment{
		Name:     uniqueAssignmentName(course),
		Category: categoryName,
		Status:   StatusGraded,
		Points:   points,
		Total:    total,
		Modified: true,
		Date:     AssignmentDate{Due: now, Start: now},
	}
	course.Assignments = append([]Assignment{assignment}, course.Assignments...)
	return Recompute(next), nil
}

// ToggleCategory flips the named category's visibility. A hidden
// category keeps its assignments but drops out of the course's weighted
// aggregation.
func ToggleCategory(marks Marks, courseName, categoryName string) (Marks, error) {
	next := marks.Clone()
	course := next.Course(courseName)
	if course == nil {
		return Marks{}, courseNotFound(courseName)
	}
	category := course.Category(categoryName)
	if category == nil {
		return Marks{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("category %q not found in course %q", categoryName, courseName))
	}
	category.Show = !category.Show
	return Recompute(next), nil
}

// uniqueAssignmentName checks collisions against the current state
// only; a deleted name becomes available again immediately.
func uniqueAssignmentName(course *Course) string {
	if course.Assignment(defaultAssignmentName) == nil {
		return defaultAssignmentName
	}
	for i := 2; ; i++ {
		candidate := defaultAssignmentName + strconv.Itoa(i)
		if course.Assignment(candidate) == nil {
			return candidate
		}
	}
}

func courseNotFound(name string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %q not found", name))
}

func assignmentNotFound(course, name string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("assignment %q not found in course %q", name, course))
}
