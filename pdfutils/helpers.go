package pdfutils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func RemoveNul(str string) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar {
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, str)
}

var nlAndSpace = regexp.MustCompile(`[\n\s]+`)

func CondenseSpaces(str string) string {
	return nlAndSpace.ReplaceAllString(str, " ")
}

// CleanLabel normalizes a user or PDF supplied label: whitespace runs become
// one space, control characters go, and the text is NFC normalized so that
// visually equal labels compare equal.
func CleanLabel(str string) string {
	return strings.TrimSpace(norm.NFC.String(RemoveNul(CondenseSpaces(str))))
}

// GetShapeID builds a stable id from the kind, page and position of a shape,
// adding a numeric suffix on collision.
func GetShapeID(ids map[string]bool, pageIndex int, x float64, y float64, kind string) string {
	xInt := int(x)
	yInt := int(y)
	id := fmt.Sprintf("%s-p%dx%dy%d", kind, pageIndex+1, xInt, yInt)
	_, ok := ids[id]

	for i := 1; ok; i++ {
		id = fmt.Sprintf("%s-p%dx%dy%d-%d", kind, pageIndex+1, xInt, yInt, i)
		_, ok = ids[id]
	}

	ids[id] = true

	return id
}
