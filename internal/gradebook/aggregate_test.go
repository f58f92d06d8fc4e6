package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeWeightedCourseValue(t *testing.T) {
	marks := Normalize(algebraGradebook())
	algebra := marks.Course("Algebra 1 (MAT1008A)")
	require.NotNil(t, algebra)

	practice := algebra.Category("Practice")
	require.NotNil(t, practice)
	assert.InDelta(t, 90.0, practice.Value, 1e-9)
	assert.Equal(t, 9.0, practice.Points)
	assert.Equal(t, 10.0, practice.Total)

	assessments := algebra.Category("Assessments")
	require.NotNil(t, assessments)
	assert.InDelta(t, 86.69, assessments.Value, 1e-9)

	// (90/100*10 + 86.69/100*90) / (10+90) * 100
	assert.InDelta(t, 87.021, algebra.Value, 1e-9)
	assert.Equal(t, "B", LetterGrade(algebra.Value))
}

func TestRecomputeEndToEndEdit(t *testing.T) {
	marks := Normalize(algebraGradebook())

	next, err := UpdatePoints(marks, "Algebra 1 (MAT1008A)", "Worksheet 4.2", 10, FieldEarned)
	require.NoError(t, err)

	algebra := next.Course("Algebra 1 (MAT1008A)")
	require.NotNil(t, algebra)
	assert.InDelta(t, 100.0, algebra.Category("Practice").Value, 1e-9)
	assert.InDelta(t, 88.021, algebra.Value, 1e-9)
}

func TestRecomputeIdempotent(t *testing.T) {
	once := Normalize(algebraGradebook())
	twice := Recompute(once.Clone())

	require.Len(t, twice.Courses, len(once.Courses))
	assert.Equal(t, math.Float64bits(once.GPA), math.Float64bits(twice.GPA))
	for i := range once.Courses {
		assert.Equal(t, math.Float64bits(once.Courses[i].Value), math.Float64bits(twice.Courses[i].Value))
		for j := range once.Courses[i].Categories {
			a := once.Courses[i].Categories[j]
			b := twice.Courses[i].Categories[j]
			assert.Equal(t, math.Float64bits(a.Value), math.Float64bits(b.Value))
			assert.Equal(t, a.Points, b.Points)
			assert.Equal(t, a.Total, b.Total)
		}
	}
}

func TestRecomputeNaNPropagation(t *testing.T) {
	raw := algebraGradebook()
	// Strip Algebra down to the Practice category only, with its one
	// assignment missing any parseable score.
	raw.Courses[0].Marks[0].WeightedCategories = raw.Courses[0].Marks[0].WeightedCategories[:1]
	raw.Courses[0].Marks[0].Assignments = raw.Courses[0].Marks[0].Assignments[1:]
	raw.Courses[0].Marks[0].Assignments[0].Points = "Extra Credit"
	marks := Normalize(raw)

	algebra := marks.Course("Algebra 1 (MAT1008A)")
	require.NotNil(t, algebra)
	require.Len(t, algebra.Categories, 1)
	assert.True(t, math.IsNaN(algebra.Categories[0].Value))
	assert.True(t, math.IsNaN(algebra.Value))
	// No course contributes, so the GPA is NaN too.
	assert.True(t, math.IsNaN(marks.GPA))
}

func TestRecomputeSkipsUngradedAssignments(t *testing.T) {
	raw := algebraGradebook()
	raw.Courses[0].Marks[0].Assignments[0].Points = "100.0000 Points Possible"
	marks := Normalize(raw)

	algebra := marks.Course("Algebra 1 (MAT1008A)")
	assessments := algebra.Category("Assessments")
	require.NotNil(t, assessments)
	// The ungraded assignment contributes nothing, not a zero.
	assert.True(t, math.IsNaN(assessments.Value))
	assert.Equal(t, 0.0, assessments.Points)
	assert.Equal(t, 0.0, assessments.Total)
	// Course value now rests on Practice alone.
	assert.InDelta(t, 90.0, algebra.Value, 1e-9)
}

func TestRecomputeIgnoresAssignmentsWithoutCategory(t *testing.T) {
	raw := algebraGradebook()
	raw.Courses[0].Marks[0].Assignments[0].Type = "Uncategorized Extra"
	marks := Normalize(raw)

	algebra := marks.Course("Algebra 1 (MAT1008A)")
	assert.True(t, math.IsNaN(algebra.Category("Assessments").Value))
	assert.InDelta(t, 90.0, algebra.Value, 1e-9)
}

func TestRecomputeGPA(t *testing.T) {
	marks := Normalize(algebraGradebook())
	// One counting course at 87.021% -> B -> 3.00.
	assert.Equal(t, 3.0, marks.GPA)
}

func TestLetterGradeBoundaries(t *testing.T) {
	assert.Equal(t, "A", LetterGrade(89.5))
	assert.Equal(t, "B", LetterGrade(89.49))
	assert.Equal(t, "B", LetterGrade(79.5))
	assert.Equal(t, "C", LetterGrade(79.49))
	assert.Equal(t, "C", LetterGrade(69.5))
	assert.Equal(t, "D", LetterGrade(69.49))
	assert.Equal(t, "D", LetterGrade(59.5))
	assert.Equal(t, "E", LetterGrade(59.49))
	assert.Equal(t, "E", LetterGrade(49.5))
	assert.Equal(t, "F", LetterGrade(49.49))
}

func TestGPAPoints(t *testing.T) {
	assert.Equal(t, 4.0, GPAPoints("A"))
	assert.Equal(t, 3.0, GPAPoints("B"))
	assert.Equal(t, 2.0, GPAPoints("C"))
	assert.Equal(t, 1.0, GPAPoints("D"))
	assert.Equal(t, 0.0, GPAPoints("E"))
	assert.Equal(t, 0.0, GPAPoints("F"))
}

func TestColorsFollowLetterGrade(t *testing.T) {
	assert.Equal(t, textColors["A"], TextColor(95))
	assert.Equal(t, textColors["F"], TextColor(12))
	assert.Equal(t, barColors["C"], BarColor(72))
	assert.NotEqual(t, TextColor(95), BarColor(95))
}
