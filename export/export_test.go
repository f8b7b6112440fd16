package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/measure"
)

func pts(xy ...float64) []markup.Point {
	var p []markup.Point
	for i := 0; i+1 < len(xy); i += 2 {
		p = append(p, markup.Point{X: xy[i], Y: xy[i+1]})
	}
	return p
}

func records(rows []Row) [][]string {
	var out [][]string
	for _, r := range rows {
		out = append(out, r.Record())
	}
	return out
}

func TestRowsUncalibrated(t *testing.T) {
	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{ID: "a", Points: pts(0, 0, 10, 0)}}

	rows, err := Rows(set, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"Length", "Line 1", "10", "px", ""}}
	if d := cmp.Diff(want, records(rows)); d != "" {
		t.Errorf("rows (-want +got):\n%s", d)
	}
}

func TestRowsCalibrated(t *testing.T) {
	set := markup.NewSet()
	set.Scale = &measure.Calibration{PixelDistance: 100, RealWorldDistance: 5, Unit: "m"}
	set.Polylines = []markup.Polyline{
		{ID: "a", Points: pts(0, 0, 200, 0), Label: "Wall"},
		{ID: "b", Points: pts(0, 0, 0, 3)},
	}
	set.Polygons = []markup.Polygon{{ID: "p", Points: pts(0, 0, 100, 0, 100, 100, 0, 100)}}
	set.Counts = []markup.CountMarker{
		{ID: "1", Type: "Door"},
		{ID: "2", Type: "Window"},
		{ID: "3", Type: "Door"},
	}

	rows, err := Rows(set, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"Length", "Wall", "10", "m", ""},
		{"Length", "Line 2", "0.15", "m", ""},
		{"Area", "Area 1", "25", "m²", ""},
		{"Count", "Door", "2", "ea", ""},
		{"Count", "Window", "1", "ea", ""},
	}
	if d := cmp.Diff(want, records(rows)); d != "" {
		t.Errorf("rows (-want +got):\n%s", d)
	}
}

func TestRowsTargetUnit(t *testing.T) {
	set := markup.NewSet()
	set.Scale = &measure.Calibration{PixelDistance: 100, RealWorldDistance: 5, Unit: "metres"}
	set.Polylines = []markup.Polyline{{ID: "a", Points: pts(0, 0, 200, 0)}}
	set.Polygons = []markup.Polygon{{ID: "p", Points: pts(0, 0, 20, 0, 20, 20, 0, 20)}}

	opts := DefaultOptions()
	opts.Unit = "feet"

	rows, err := Rows(set, opts)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"Length", "Line 1", "32.81", "ft", ""},
		{"Area", "Area 1", "10.76", "ft²", ""},
	}
	if d := cmp.Diff(want, records(rows)); d != "" {
		t.Errorf("rows (-want +got):\n%s", d)
	}

	opts.Unit = "furlong"
	if _, err := Rows(set, opts); !errors.Is(err, measure.ErrUnknownUnit) {
		t.Errorf("unknown target unit: got %v", err)
	}
}

func TestRowsColorNotes(t *testing.T) {
	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{ID: "a", Points: pts(0, 0, 1, 0), Color: "#e53935"}}
	set.Counts = []markup.CountMarker{{ID: "c", Type: "Outlet", Color: "#1e88e5"}}

	opts := DefaultOptions()
	opts.ColorNotes = true

	rows, err := Rows(set, opts)
	if err != nil {
		t.Fatal(err)
	}

	got := []string{rows[0].Notes, rows[1].Notes}
	if d := cmp.Diff([]string{"Red", "Blue"}, got); d != "" {
		t.Errorf("notes (-want +got):\n%s", d)
	}
}

func TestRowsEmpty(t *testing.T) {
	rows, err := Rows(markup.NewSet(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows for an empty set", len(rows))
	}
}

func TestWriteCSVQuoting(t *testing.T) {
	rows := []Row{
		{Kind: KindLength, Label: `Wall, "north"`, Quantity: 1.5, Unit: "m"},
		{Kind: KindCount, Label: "Door\nleaf", Quantity: 2, Unit: "ea"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	want := "Type,Label,Quantity,Unit,Notes\n" +
		"Length,\"Wall, \"\"north\"\"\",1.5,m,\n" +
		"Count,\"Door\nleaf\",2,ea,\n"
	if d := cmp.Diff(want, buf.String()); d != "" {
		t.Errorf("csv (-want +got):\n%s", d)
	}
}

func TestWriteCSVSeparator(t *testing.T) {
	rows := []Row{{Kind: KindLength, Label: "a;b", Quantity: 3, Unit: "px"}}

	opts := DefaultOptions()
	opts.IncludeHeader = false
	opts.Comma = ';'

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, opts); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "Length;\"a;b\";3;px;\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportToFileSink(t *testing.T) {
	dir := t.TempDir()

	set := markup.NewSet()
	set.Polylines = []markup.Polyline{{ID: "a", Points: pts(0, 0, 10, 0)}}

	if err := Export(FileSink{Dir: dir}, "plans/level-1.pdf", set, DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "level-1-quantities.csv"))
	if err != nil {
		t.Fatal(err)
	}

	want := "Type,Label,Quantity,Unit,Notes\nLength,Line 1,10,px,\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestFileName(t *testing.T) {
	for in, want := range map[string]string{
		"plans/level-1.pdf": "level-1-quantities.csv",
		"drawing":           "drawing-quantities.csv",
		"":                  "takeoff-quantities.csv",
	} {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}
