package pdfutils

import (
	"fmt"
	"hash/fnv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mgmeyers/unipdf/v3/core"
)

func toHEXStr(i int) string {
	s := fmt.Sprintf("%x", i)

	if len(s) == 1 {
		return "0" + s
	}

	return s
}

// PDFObjToHex converts a PDF RGB color array to #rrggbb.
func PDFObjToHex(c core.PdfObject) string {
	if c == nil {
		return ""
	}

	objArr, ok := c.(*core.PdfObjectArray)
	if !ok {
		return ""
	}

	clr, err := objArr.ToFloat64Array()
	if err != nil {
		return ""
	}

	if len(clr) < 3 {
		return ""
	}

	return "#" + toHEXStr(int(clr[0]*255)) + toHEXStr(int(clr[1]*255)) + toHEXStr(int(clr[2]*255))
}

// NormalizeColor parses a user supplied color ("#f80", "ff8800", "#FF8800")
// and returns it as lowercase #rrggbb. The empty string stays empty.
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}

	return c.Hex(), nil
}

// TypeColor derives a stable color from a count type name so that every
// marker of one type looks the same without the user choosing a color.
func TypeColor(countType string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(countType)))

	hue := float64(h.Sum32() % 360)

	return colorful.Hsl(hue, 0.65, 0.45).Clamped().Hex()
}

// ColorCategory names the hue family of a #rrggbb color.
func ColorCategory(hex string) string {
	if hex == "" {
		return ""
	}

	color, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return ""
	}

	h, s, l := color.Hsl()

	// define color category based on HSL
	if l < 0.12 {
		return "Black"
	}
	if l > 0.98 {
		return "White"
	}
	if s < 0.2 {
		return "Gray"
	}
	if h < 15 {
		return "Red"
	}
	if h < 45 {
		return "Orange"
	}
	if h < 65 {
		return "Yellow"
	}
	if h < 170 {
		return "Green"
	}
	if h < 190 {
		return "Cyan"
	}
	if h < 263 {
		return "Blue"
	}
	if h < 280 {
		return "Purple"
	}
	if h < 335 {
		return "Magenta"
	}
	return "Red"
}
