package measure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned when a unit has no known metre factor.
var ErrUnknownUnit = errors.New("unknown unit")

const (
	PixelUnit     = "px"
	PixelAreaUnit = "px²"
	CountUnit     = "ea"
	squaredSuffix = "²"
)

var metresPer = map[string]float64{
	"mm": 0.001,
	"cm": 0.01,
	"m":  1,
	"km": 1000,
	"in": 0.0254,
	"ft": 0.3048,
	"yd": 0.9144,
	"mi": 1609.344,
}

var unitAliases = map[string]string{
	"millimeter":  "mm",
	"millimeters": "mm",
	"centimeter":  "cm",
	"centimeters": "cm",
	"meter":       "m",
	"meters":      "m",
	"metre":       "m",
	"metres":      "m",
	"kilometer":   "km",
	"kilometers":  "km",
	"inch":        "in",
	"inches":      "in",
	"\"":          "in",
	"foot":        "ft",
	"feet":        "ft",
	"'":           "ft",
	"yard":        "yd",
	"yards":       "yd",
	"mile":        "mi",
	"miles":       "mi",
}

// CanonicalUnit maps aliases such as "feet" or "metres" to their short form.
// Unknown units are returned trimmed but otherwise untouched.
func CanonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if a, ok := unitAliases[u]; ok {
		return a
	}
	if _, ok := metresPer[u]; ok {
		return u
	}

	return strings.TrimSpace(unit)
}

// AreaUnit returns the squared form of a length unit.
func AreaUnit(unit string) string {
	if strings.HasSuffix(unit, squaredSuffix) {
		return unit
	}

	return unit + squaredSuffix
}

func factor(from, to string) (float64, error) {
	f, ok := metresPer[CanonicalUnit(from)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}

	t, ok := metresPer[CanonicalUnit(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}

	return f / t, nil
}

// Convert changes a length from one unit to another.
func Convert(value float64, from, to string) (float64, error) {
	if CanonicalUnit(from) == CanonicalUnit(to) {
		return value, nil
	}

	f, err := factor(from, to)
	if err != nil {
		return 0, err
	}

	return value * f, nil
}

// ConvertArea changes an area between the squares of two length units.
func ConvertArea(value float64, from, to string) (float64, error) {
	from = strings.TrimSuffix(from, squaredSuffix)
	to = strings.TrimSuffix(to, squaredSuffix)

	if CanonicalUnit(from) == CanonicalUnit(to) {
		return value, nil
	}

	f, err := factor(from, to)
	if err != nil {
		return 0, err
	}

	return value * f * f, nil
}
