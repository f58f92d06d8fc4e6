package gradebook

import (
	"math"
	"regexp"
	"strconv"
)

var (
	scorePattern     = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+) ?/ ?(\d+(?:\.\d*)?|\.\d+)$`)
	floatPrefix      = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
	courseIDSuffix   = regexp.MustCompile(`\([A-Z]{3}\d{4}[A-Z]\)$`)
	numericInputGate = regexp.MustCompile(`^[0-9.]+$`)
)

// ParsePoints parses a raw score string. "<earned> / <possible>" yields
// both numbers; anything else is treated as a bare possible total with
// no earned score yet ("15.0000 Points Possible" parses to (NaN, 15)).
func ParsePoints(score string) (points, total float64) {
	if match := scorePattern.FindStringSubmatch(score); match != nil {
		points, _ = strconv.ParseFloat(match[1], 64)
		total, _ = strconv.ParseFloat(match[2], 64)
		return points, total
	}
	return math.NaN(), parseFloatPrefix(score)
}

// parseFloatPrefix parses the leading numeric run of the string,
// ignoring trailing non-numeric text. Returns NaN when the string does
// not start with a number.
func parseFloatPrefix(raw string) float64 {
	prefix := floatPrefix.FindString(raw)
	if prefix == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// ParseCourseName strips a trailing parenthesized course-ID suffix:
// "AP History A (SOC4935B)" becomes "AP History A ".
func ParseCourseName(name string) string {
	return courseIDSuffix.ReplaceAllString(name, "")
}

// Round rounds half-up to the given number of fractional digits using a
// string exponent shift, avoiding float representation drift on values
// like 1.005.
func Round(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	shifted, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', -1, 64)+"e"+strconv.Itoa(decimals), 64)
	if err != nil {
		return value
	}
	rounded := math.Round(shifted)
	result, err := strconv.ParseFloat(strconv.FormatFloat(rounded, 'f', -1, 64)+"e-"+strconv.Itoa(decimals), 64)
	if err != nil {
		return value
	}
	return result
}

// IsNumber reports whether the input consists solely of digits and
// dots. Deliberately permissive (accepts "1.2.3"); it gates numeric
// text-field input, it is not strict numeric validation.
func IsNumber(input string) bool {
	return numericInputGate.MatchString(input)
}
