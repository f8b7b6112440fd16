package pdfutils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mgmeyers/unipdf/v3/extractor"
	"github.com/mgmeyers/unipdf/v3/model"
)

// ScaleNote is a drawing scale printed on a page, such as "1:100" or
// `1/4" = 1'-0"`.
type ScaleNote struct {
	Text string `json:"text"`
	// Ratio is real-world length per unit of paper length, 0 when the note
	// could not be reduced to a ratio.
	Ratio float64 `json:"ratio"`
}

var (
	ratioNote    = regexp.MustCompile(`\b1\s*:\s*(\d+(?:\.\d+)?)\b`)
	imperialNote = regexp.MustCompile(`(\d+(?:/\d+)?)\s*(?:"|”|in)\s*=\s*(\d+)\s*(?:'|’|ft)(?:\s*-?\s*(\d+)\s*(?:"|”))?`)
)

func parseFraction(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}

	if !found {
		return n
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}

	return n / d
}

// FindScaleNotes scans page text for drawing scales.
func FindScaleNotes(text string) []ScaleNote {
	text = CondenseSpaces(text)
	notes := []ScaleNote{}

	for _, m := range ratioNote.FindAllStringSubmatch(text, -1) {
		r, _ := strconv.ParseFloat(m[1], 64)
		notes = append(notes, ScaleNote{Text: strings.TrimSpace(m[0]), Ratio: r})
	}

	for _, m := range imperialNote.FindAllStringSubmatch(text, -1) {
		paper := parseFraction(m[1])
		feet, _ := strconv.ParseFloat(m[2], 64)
		inches := 0.0
		if m[3] != "" {
			inches, _ = strconv.ParseFloat(m[3], 64)
		}

		ratio := 0.0
		if paper > 0 {
			ratio = (feet*12 + inches) / paper
		}

		notes = append(notes, ScaleNote{Text: strings.TrimSpace(m[0]), Ratio: ratio})
	}

	return notes
}

// GetPageText extracts the text layer of a page.
func GetPageText(page *model.PdfPage) (string, error) {
	ext, err := extractor.New(page)
	if err != nil {
		return "", err
	}

	txt, _, _, err := ext.ExtractPageText()
	if err != nil {
		return "", err
	}

	return txt.Text(), nil
}
