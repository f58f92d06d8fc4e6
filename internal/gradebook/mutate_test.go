package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/gradeview-api/pkg/errors"
)

const algebraCourse = "Algebra 1 (MAT1008A)"

func TestUpdatePointsLeavesInputUntouched(t *testing.T) {
	marks := Normalize(algebraGradebook())
	before := math.Float64bits(marks.Course(algebraCourse).Value)

	next, err := UpdatePoints(marks, algebraCourse, "Worksheet 4.2", 2, FieldEarned)
	require.NoError(t, err)

	assert.Equal(t, before, math.Float64bits(marks.Course(algebraCourse).Value))
	assert.Equal(t, 9.0, marks.Course(algebraCourse).Assignment("Worksheet 4.2").Points)
	assert.False(t, marks.Course(algebraCourse).Assignment("Worksheet 4.2").Modified)

	assert.Equal(t, 2.0, next.Course(algebraCourse).Assignment("Worksheet 4.2").Points)
	assert.True(t, next.Course(algebraCourse).Assignment("Worksheet 4.2").Modified)
	assert.NotEqual(t, before, math.Float64bits(next.Course(algebraCourse).Value))
}

func TestUpdatePointsTotalFieldAndClear(t *testing.T) {
	marks := Normalize(algebraGradebook())

	next, err := UpdatePoints(marks, algebraCourse, "Worksheet 4.2", 20, FieldTotal)
	require.NoError(t, err)
	assert.Equal(t, 20.0, next.Course(algebraCourse).Assignment("Worksheet 4.2").Total)
	assert.InDelta(t, 45.0, next.Course(algebraCourse).Category("Practice").Value, 1e-9)

	// Clearing the field sets NaN and the assignment drops out.
	cleared, err := UpdatePoints(next, algebraCourse, "Worksheet 4.2", math.NaN(), FieldEarned)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(cleared.Course(algebraCourse).Category("Practice").Value))
}

func TestUpdatePointsNotFound(t *testing.T) {
	marks := Normalize(algebraGradebook())

	_, err := UpdatePoints(marks, "Chemistry", "Worksheet 4.2", 2, FieldEarned)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = UpdatePoints(marks, algebraCourse, "Missing Homework", 2, FieldEarned)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestToggleCategoryExcludesWeightAndRestoresExactly(t *testing.T) {
	marks := Normalize(algebraGradebook())
	original := math.Float64bits(marks.Course(algebraCourse).Value)

	hidden, err := ToggleCategory(marks, algebraCourse, "Practice")
	require.NoError(t, err)
	assert.False(t, hidden.Course(algebraCourse).Category("Practice").Show)
	// Only Assessments counts: value collapses to its category value.
	assert.InDelta(t, 86.69, hidden.Course(algebraCourse).Value, 1e-9)
	// Hidden categories keep their assignments and derived sums.
	assert.InDelta(t, 90.0, hidden.Course(algebraCourse).Category("Practice").Value, 1e-9)

	restored, err := ToggleCategory(hidden, algebraCourse, "Practice")
	require.NoError(t, err)
	// Bit-for-bit: no drift across a hide/show cycle.
	assert.Equal(t, original, math.Float64bits(restored.Course(algebraCourse).Value))
}

func TestAddAssignmentGeneratesUniqueNames(t *testing.T) {
	marks := Normalize(algebraGradebook())

	first, err := AddAssignment(marks, algebraCourse, "Practice", 10, 10)
	require.NoError(t, err)
	second, err := AddAssignment(first, algebraCourse, "Practice", 5, 10)
	require.NoError(t, err)

	course := second.Course(algebraCourse)
	// Additions prepend, newest first.
	assert.Equal(t, "Assignment2", course.Assignments[0].Name)
	assert.Equal(t, "Assignment", course.Assignments[1].Name)
	assert.Equal(t, StatusGraded, course.Assignments[0].Status)
	assert.True(t, course.Assignments[0].Modified)
	assert.False(t, course.Assignments[0].Date.Due.IsZero())

	// Practice: 9/10 + 10/10 + 5/10 = 24/30.
	assert.InDelta(t, 80.0, course.Category("Practice").Value, 1e-9)
}

func TestAddAssignmentNameFreedByDelete(t *testing.T) {
	marks := Normalize(algebraGradebook())

	withAdd, err := AddAssignment(marks, algebraCourse, "Practice", 10, 10)
	require.NoError(t, err)
	withSecond, err := AddAssignment(withAdd, algebraCourse, "Practice", 10, 10)
	require.NoError(t, err)
	deleted, err := DeleteAssignment(withSecond, algebraCourse, "Assignment")
	require.NoError(t, err)
	readded, err := AddAssignment(deleted, algebraCourse, "Practice", 10, 10)
	require.NoError(t, err)

	// Collision check runs against current state only, not history.
	assert.Equal(t, "Assignment", readded.Course(algebraCourse).Assignments[0].Name)
}

func TestDeleteAssignmentPreservesOrderAndRemovesDuplicates(t *testing.T) {
	marks := Normalize(algebraGradebook())
	// Force a duplicate name pair, as a portal feed theoretically could.
	course := marks.Course(algebraCourse)
	course.Assignments = append(course.Assignments, Assignment{
		Name:     "Chapter 4 Quiz",
		Category: "Assessments",
		Status:   StatusGraded,
		Points:   50,
		Total:    50,
	})
	marks = Recompute(marks)

	deleted, err := DeleteAssignment(marks, algebraCourse, "Chapter 4 Quiz")
	require.NoError(t, err)

	remaining := deleted.Course(algebraCourse).Assignments
	require.Len(t, remaining, 1)
	assert.Equal(t, "Worksheet 4.2", remaining[0].Name)
	assert.True(t, math.IsNaN(deleted.Course(algebraCourse).Category("Assessments").Value))
}

func TestDeleteAssignmentNotFound(t *testing.T) {
	marks := Normalize(algebraGradebook())
	_, err := DeleteAssignment(marks, algebraCourse, "Ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCloneIsDeep(t *testing.T) {
	marks := Normalize(algebraGradebook())
	clone := marks.Clone()

	clone.Course(algebraCourse).Assignments[0].Points = 0
	clone.Course(algebraCourse).Categories[0].Show = false

	assert.Equal(t, 86.69, marks.Course(algebraCourse).Assignments[0].Points)
	assert.True(t, marks.Course(algebraCourse).Categories[0].Show)
}
