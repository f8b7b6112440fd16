package measure

import (
	"errors"
	"math"
	"testing"
)

func TestToReal(t *testing.T) {
	calib := &Calibration{PixelDistance: 100, RealWorldDistance: 5, Unit: "m"}

	if got := ToRealLength(200, calib); !almostEqual(got, 10) {
		t.Errorf("ToRealLength = %g, want 10", got)
	}
	if got := ToRealArea(10000, calib); !almostEqual(got, 25) {
		t.Errorf("ToRealArea = %g, want 25", got)
	}
	if got := calib.Scale(); !almostEqual(got, 0.05) {
		t.Errorf("Scale = %g, want 0.05", got)
	}
}

func TestToRealWithoutCalibration(t *testing.T) {
	if got := ToRealLength(200, nil); got != 0 {
		t.Errorf("ToRealLength(nil) = %g", got)
	}
	if got := ToRealArea(200, nil); got != 0 {
		t.Errorf("ToRealArea(nil) = %g", got)
	}
	for _, c := range []*Calibration{
		{PixelDistance: 100, RealWorldDistance: math.NaN(), Unit: "m"},
		{PixelDistance: math.Inf(1), RealWorldDistance: 5, Unit: "m"},
		{PixelDistance: 100, RealWorldDistance: math.Inf(-1), Unit: "m"},
	} {
		if c.Valid() || ToRealLength(10, c) != 0 {
			t.Errorf("non-finite calibration %+v accepted", *c)
		}
	}
	zero := &Calibration{RealWorldDistance: 3, Unit: "m"}
	if zero.Valid() || ToRealLength(10, zero) != 0 {
		t.Error("zero pixel distance must not convert")
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(1, "ft", "in")
	if err != nil || !almostEqual(got, 12) {
		t.Errorf("Convert(1 ft, in) = %g, %v", got, err)
	}

	got, err = Convert(2.5, "metres", "m")
	if err != nil || got != 2.5 {
		t.Errorf("Convert alias = %g, %v", got, err)
	}

	got, err = ConvertArea(1, "m²", "cm²")
	if err != nil || !almostEqual(got, 10000) {
		t.Errorf("ConvertArea = %g, %v", got, err)
	}

	if _, err := Convert(1, "furlong", "m"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestAreaUnit(t *testing.T) {
	if AreaUnit("m") != "m²" || AreaUnit("px²") != "px²" {
		t.Error("AreaUnit mismatch")
	}
}
