package measure

import "math"

// Calibration relates one measured document-space distance to a declared
// real-world distance. A nil *Calibration means the document is not
// calibrated and measurements stay in document-space units.
type Calibration struct {
	PixelDistance     float64 `json:"pixelDistance" yaml:"pixel_distance"`
	RealWorldDistance float64 `json:"realWorldDistance" yaml:"real_world_distance"`
	Unit              string  `json:"unit" yaml:"unit"`
}

// Valid reports whether c can be used for conversion. Both distances must
// be finite.
func (c *Calibration) Valid() bool {
	return c != nil && c.PixelDistance > 0 && finite(c.PixelDistance) && finite(c.RealWorldDistance)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Scale returns real-world units per document-space unit, or 0 when c is
// not valid.
func (c *Calibration) Scale() float64 {
	if !c.Valid() {
		return 0
	}

	return c.RealWorldDistance / c.PixelDistance
}

// ToRealLength converts a document-space length. It returns 0 without a
// calibration.
func ToRealLength(pixelLen float64, calib *Calibration) float64 {
	if !calib.Valid() {
		return 0
	}

	return pixelLen / calib.PixelDistance * calib.RealWorldDistance
}

// ToRealArea converts a document-space area using the squared scale factor.
// It returns 0 without a calibration.
func ToRealArea(pixelArea float64, calib *Calibration) float64 {
	if !calib.Valid() {
		return 0
	}

	s := calib.RealWorldDistance / calib.PixelDistance

	return pixelArea * s * s
}
