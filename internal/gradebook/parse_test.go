package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePointsScorePair(t *testing.T) {
	points, total := ParsePoints("5.00 / 5.0000")
	assert.Equal(t, 5.0, points)
	assert.Equal(t, 5.0, total)

	points, total = ParsePoints("9 / 10")
	assert.Equal(t, 9.0, points)
	assert.Equal(t, 10.0, total)

	points, total = ParsePoints(".5 / 1.0")
	assert.Equal(t, 0.5, points)
	assert.Equal(t, 1.0, total)
}

func TestParsePointsBareTotal(t *testing.T) {
	points, total := ParsePoints("15.0000 Points Possible")
	assert.True(t, math.IsNaN(points))
	assert.Equal(t, 15.0, total)
}

func TestParsePointsUnparseable(t *testing.T) {
	points, total := ParsePoints("Extra Credit")
	assert.True(t, math.IsNaN(points))
	assert.True(t, math.IsNaN(total))
}

func TestParseCourseNameStripsIDSuffix(t *testing.T) {
	assert.Equal(t, "AP History A ", ParseCourseName("AP History A (SOC4935B)"))
	assert.Equal(t, "Algebra 1", ParseCourseName("Algebra 1"))
	// Suffixes that do not match the ID shape stay.
	assert.Equal(t, "Band (Concert)", ParseCourseName("Band (Concert)"))
	// Only a trailing ID is stripped, never one mid-name.
	assert.Equal(t, "History (SOC4935B) Honors", ParseCourseName("History (SOC4935B) Honors"))
	assert.Equal(t, "History (SOC4935B) Honors ", ParseCourseName("History (SOC4935B) Honors (SOC4936C)"))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 1.01, Round(1.005, 2))
	assert.Equal(t, 3.33, Round(10.0/3.0, 2))
	assert.Equal(t, 88.02, Round(88.021, 2))
	assert.Equal(t, 90.0, Round(89.5, 0))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("42"))
	assert.True(t, IsNumber("4.2"))
	// Permissive by design: multiple dots pass the input gate.
	assert.True(t, IsNumber("1.2.3"))
	assert.False(t, IsNumber(""))
	assert.False(t, IsNumber("4,2"))
	assert.False(t, IsNumber("-4"))
}
