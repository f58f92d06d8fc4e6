package gradebook

// Two independent palettes keyed by letter grade: one for text, one for
// progress bars. Both go through LetterGrade so the rendered color can
// never disagree with the rendered letter.

var textColors = map[string]string{
	"A": "#00C853",
	"B": "#64DD17",
	"C": "#FFD600",
	"D": "#FF9100",
	"E": "#FF6D00",
	"F": "#D50000",
}

var barColors = map[string]string{
	"A": "#1B5E20",
	"B": "#33691E",
	"C": "#F57F17",
	"D": "#E65100",
	"E": "#BF360C",
	"F": "#B71C1C",
}

// TextColor returns the text color constant for a mark.
func TextColor(mark float64) string {
	return textColors[LetterGrade(mark)]
}

// BarColor returns the progress-bar color constant for a mark.
func BarColor(mark float64) string {
	return barColors[LetterGrade(mark)]
}
