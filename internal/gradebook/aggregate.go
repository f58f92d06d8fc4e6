package gradebook

import "math"

// Letter grade boundaries, inclusive lower bounds on the half point.
const (
	boundA = 89.5
	boundB = 79.5
	boundC = 69.5
	boundD = 59.5
	boundE = 49.5
)

// Recompute derives every category value, course value and the overall
// GPA from scratch. It is idempotent and must be called after any
// change to points, totals or category visibility; there is no
// incremental path. The returned Marks is the consistent snapshot
// callers must use.
func Recompute(marks Marks) Marks {
	gpaSum := 0.0
	counted := 0

	for i := range marks.Courses {
		course := &marks.Courses[i]
		recomputeCourse(course)
		if !math.IsNaN(course.Value) {
			gpaSum += GPAPoints(LetterGrade(course.Value))
			counted++
		}
	}

	// 0/0 is NaN, the canonical "no grade available" value.
	marks.GPA = Round(gpaSum/float64(counted), 2)
	return marks
}

func recomputeCourse(course *Course) {
	course.Value = nan()
	for i := range course.Categories {
		category := &course.Categories[i]
		category.Points = 0
		category.Total = 0
		category.Value = nan()
	}

	for _, assignment := range course.Assignments {
		category := course.Category(assignment.Category)
		if category == nil {
			// Unmatched categories are skipped, not errors.
			continue
		}
		if math.IsNaN(assignment.Points) || math.IsNaN(assignment.Total) {
			continue
		}
		category.Points += assignment.Points
		category.Total += assignment.Total
		category.Value = category.Points / category.Total * 100
	}

	weightedPoints := 0.0
	weightSum := 0.0
	for _, category := range course.Categories {
		if math.IsNaN(category.Value) || !category.Show {
			continue
		}
		weightedPoints += category.Value / 100 * category.Weight
		weightSum += category.Weight
	}
	course.Value = weightedPoints / weightSum * 100
}

// LetterGrade maps a percentage mark to its letter.
func LetterGrade(mark float64) string {
	switch {
	case mark >= boundA:
		return "A"
	case mark >= boundB:
		return "B"
	case mark >= boundC:
		return "C"
	case mark >= boundD:
		return "D"
	case mark >= boundE:
		return "E"
	default:
		return "F"
	}
}

// GPAPoints maps a letter grade to 4-point-scale points.
func GPAPoints(letter string) float64 {
	switch letter {
	case "A":
		return 4
	case "B":
		return 3
	case "C":
		return 2
	case "D":
		return 1
	default:
		return 0
	}
}
