package pdfutils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindScaleNotes(t *testing.T) {
	text := "GROUND FLOOR PLAN\nSCALE 1:100 @ A1\nDETAIL  1 : 20\nELEVATION 1/4\" = 1'-0\"\nSITE 1\" = 20'"

	got := FindScaleNotes(text)
	want := []ScaleNote{
		{Text: "1:100", Ratio: 100},
		{Text: "1 : 20", Ratio: 20},
		{Text: "1/4\" = 1'-0\"", Ratio: 48},
		{Text: "1\" = 20'", Ratio: 240},
	}

	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("FindScaleNotes mismatch (-want +got):\n%s", d)
	}
}

func TestFindScaleNotesNone(t *testing.T) {
	if got := FindScaleNotes("no scale here, see sheet A-101"); len(got) != 0 {
		t.Errorf("unexpected notes %v", got)
	}
}
