package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/pdfutils"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

// pageDoc names the annotation set of one page of a document.
func pageDoc(input string, page int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(input), page)
}

// parsePoint reads "x,y" in page units.
func parsePoint(s string) (markup.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return markup.Point{}, fmt.Errorf("invalid point %q: expected x,y", s)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return markup.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}

	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return markup.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}

	return markup.Point{X: x, Y: y}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// pageRange expands "1-3,5" into page numbers, bounded by count. An empty
// selection means every page.
func pageRange(sel string, count int) ([]int, error) {
	if strings.TrimSpace(sel) == "" {
		pages := make([]int, count)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	seen := map[int]bool{}
	pages := []int{}

	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)

		from, to := part, part
		if i := strings.Index(part, "-"); i >= 0 {
			from, to = part[:i], part[i+1:]
		}

		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid page selection %q", sel)
		}
		b, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid page selection %q", sel)
		}

		if a < 1 || b > count || a > b {
			return nil, fmt.Errorf("page selection %q outside 1-%d", part, count)
		}

		for n := a; n <= b; n++ {
			if !seen[n] {
				seen[n] = true
				pages = append(pages, n)
			}
		}
	}

	return pages, nil
}

// clickPoints feeds "x,y;x,y" to s. With a positive zoom the points are
// pixel positions of the page shown at that zoom. A refused click is an
// error.
func clickPoints(s *markup.Session, points string, zoom float64, frame viewport.Frame) error {
	canvas := viewport.CanvasFor(frame, zoom, 1, 0, 0)

	for _, arg := range strings.Split(points, ";") {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}

		ok := false
		if zoom > 0 {
			if ok, err = s.ClickAt(p.X, p.Y, canvas, &frame); err != nil {
				return err
			}
		} else {
			ok = s.Click(p)
		}

		if !ok {
			return fmt.Errorf("point %s was not accepted", arg)
		}
	}

	return nil
}

// countOf counts the markers of a type as the store names it.
func countOf(store *markup.Store, countType string) int {
	return store.CountOf(pdfutils.CleanLabel(countType))
}
