// Package export flattens an annotation set into a quantity list and writes
// it as delimited text.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/measure"
	"github.com/mgmeyers/pdftakeoff/pdfutils"
)

// Row kinds.
const (
	KindLength = "Length"
	KindArea   = "Area"
	KindCount  = "Count"
)

// Row is one line of the quantity list.
type Row struct {
	Kind     string
	Label    string
	Quantity float64
	Unit     string
	Notes    string
}

// Options controls how rows are computed and printed.
type Options struct {
	// Precision is the number of decimals quantities are rounded to.
	Precision int `yaml:"precision"`
	// Unit converts calibrated quantities to another length unit. Empty
	// keeps the calibration unit.
	Unit string `yaml:"unit"`
	// IncludeHeader writes a header row.
	IncludeHeader bool `yaml:"include_header"`
	// ColorNotes puts the color family of each shape in the notes column.
	ColorNotes bool `yaml:"color_notes"`
	// Comma is the field separator.
	Comma rune `yaml:"-"`
}

// DefaultOptions returns the stock export options.
func DefaultOptions() Options {
	return Options{
		Precision:     2,
		IncludeHeader: true,
		Comma:         ',',
	}
}

// Header is the column header row.
var Header = []string{"Type", "Label", "Quantity", "Unit", "Notes"}

// Rows produces one row per polyline, one per polygon and one per count
// type. Without a calibration, lengths and areas stay in document units.
func Rows(set *markup.Set, opts Options) ([]Row, error) {
	calib := set.Scale
	if !calib.Valid() {
		calib = nil
	}

	lengthUnit, areaUnit := measure.PixelUnit, measure.PixelAreaUnit
	if calib != nil {
		lengthUnit = measure.CanonicalUnit(calib.Unit)
		areaUnit = measure.AreaUnit(lengthUnit)
	}

	length := func(v float64) (float64, string, error) {
		if calib == nil {
			return v, lengthUnit, nil
		}

		v = measure.ToRealLength(v, calib)
		if opts.Unit == "" {
			return v, lengthUnit, nil
		}

		v, err := measure.Convert(v, lengthUnit, opts.Unit)

		return v, measure.CanonicalUnit(opts.Unit), err
	}

	area := func(v float64) (float64, string, error) {
		if calib == nil {
			return v, areaUnit, nil
		}

		v = measure.ToRealArea(v, calib)
		if opts.Unit == "" {
			return v, areaUnit, nil
		}

		to := measure.AreaUnit(measure.CanonicalUnit(opts.Unit))
		v, err := measure.ConvertArea(v, areaUnit, to)

		return v, to, err
	}

	notes := func(color string) string {
		if !opts.ColorNotes {
			return ""
		}
		return pdfutils.ColorCategory(color)
	}

	rows := []Row{}

	for i, l := range set.Polylines {
		q, unit, err := length(l.Length())
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			Kind:     KindLength,
			Label:    labelOr(l.Label, "Line", i),
			Quantity: round(q, opts.Precision),
			Unit:     unit,
			Notes:    notes(l.Color),
		})
	}

	for i, p := range set.Polygons {
		q, unit, err := area(p.Area())
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			Kind:     KindArea,
			Label:    labelOr(p.Label, "Area", i),
			Quantity: round(q, opts.Precision),
			Unit:     unit,
			Notes:    notes(p.Color),
		})
	}

	for _, g := range markup.GroupCounts(set.Counts) {
		rows = append(rows, Row{
			Kind:     KindCount,
			Label:    g.Type,
			Quantity: float64(g.Count),
			Unit:     measure.CountUnit,
			Notes:    notes(g.Color),
		})
	}

	return rows, nil
}

func labelOr(label, prefix string, i int) string {
	if label != "" {
		return label
	}

	return fmt.Sprintf("%s %d", prefix, i+1)
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}

	p := math.Pow(10, float64(precision))

	return math.Round(v*p) / p
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Record returns the row as text fields.
func (r Row) Record() []string {
	return []string{r.Kind, r.Label, FormatQuantity(r.Quantity), r.Unit, r.Notes}
}
