package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mgmeyers/pdftakeoff/export"
	"github.com/mgmeyers/pdftakeoff/markup"
	"github.com/mgmeyers/pdftakeoff/measure"
	"github.com/mgmeyers/pdftakeoff/overlay"
	"github.com/mgmeyers/pdftakeoff/pdfutils"
	"github.com/mgmeyers/pdftakeoff/render"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

func pageCount(ctx context.Context, a *app, dec render.Decoder) (int, error) {
	var n int
	err := a.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		n, err = dec.PageCount()
		return err
	})

	return n, err
}

func pageFrame(ctx context.Context, a *app, dec render.Decoder, n int) (viewport.Frame, error) {
	count, err := pageCount(ctx, a, dec)
	if err != nil {
		return viewport.Frame{}, err
	}
	if n < 1 || n > count {
		return viewport.Frame{}, fmt.Errorf("page %d outside 1-%d", n, count)
	}

	var f viewport.Frame
	err = a.queue.Do(ctx, func(ctx context.Context) error {
		var err error
		f, err = dec.Frame(n)
		return err
	})

	return f, err
}

type pageInfo struct {
	Page        int                  `json:"page"`
	Width       float64              `json:"width"`
	Height      float64              `json:"height"`
	Rotate      int64                `json:"rotate"`
	ScaleNotes  []pdfutils.ScaleNote `json:"scaleNotes"`
	Annotations int                  `json:"annotations"`
	Calibration *measure.Calibration `json:"calibration,omitempty"`
}

type infoCmd struct {
	OCR   bool   `help:"Read scale notes from the title block when a page has no text layer"`
	Pack  string `help:"Annotation pack whose calibration is reported"`
	Input string `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (c *infoCmd) Run(a *app) error {
	ctx := context.Background()

	dec, err := a.open(ctx, c.Input)
	if err != nil {
		return err
	}
	defer a.closeDecoder(ctx, dec)

	count, err := pageCount(ctx, a, dec)
	if err != nil {
		return err
	}

	ocr := c.OCR && a.cfg.OCR.Available() && a.cfg.OCR.HasLangs()
	if c.OCR && !ocr {
		a.log.WithField("path", a.cfg.OCR.Path).Warn("tesseract or its languages are missing, skipping OCR")
	}

	infos := []pageInfo{}
	ids := map[string]bool{}

	for n := 1; n <= count; n++ {
		info := pageInfo{Page: n}

		err := a.queue.Do(ctx, func(ctx context.Context) error {
			page, err := dec.Reader().GetPage(n)
			if err != nil {
				return err
			}

			g, err := pdfutils.GetPageGeometry(page)
			if err != nil {
				return err
			}
			info.Width, info.Height = g.Size()
			info.Rotate = g.Rotate

			text, err := pdfutils.GetPageText(page)
			if err != nil {
				a.log.WithError(err).WithField("page", n).Debug("no text layer")
			}
			info.ScaleNotes = pdfutils.FindScaleNotes(text)

			shapes, err := pdfutils.ImportPageShapes(n-1, page, ids)
			if err != nil {
				return err
			}
			info.Annotations = len(shapes)

			if len(info.ScaleNotes) > 0 || !ocr {
				return nil
			}

			img, err := dec.Render(n, 300)
			if err != nil {
				return err
			}

			info.ScaleNotes, err = a.cfg.OCR.ScaleNotes(img)

			return err
		})
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}

		set, err := a.store.Load(markup.Ref{Doc: pageDoc(c.Input, n), Pack: c.Pack})
		if err != nil {
			return err
		}
		info.Calibration = set.Scale

		infos = append(infos, info)
	}

	return writeJSON(os.Stdout, infos)
}

type renderCmd struct {
	Output   string  `short:"o" type:"path" required:"" help:"Directory to write page images to"`
	BaseName string  `short:"n" help:"Base name of saved images. Defaults to the input file name"`
	Pages    string  `short:"p" help:"Pages to render, such as 1-3,5. Defaults to every page"`
	Format   string  `short:"f" help:"Image format, png or jpg. Defaults to the configured format"`
	DPI      float64 `short:"d" help:"Image DPI. Defaults to the configured DPI"`
	Overlay  bool    `help:"Paint saved measurements onto the pages"`
	Pack     string  `help:"Annotation pack to paint"`
	Input    string  `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (c *renderCmd) Run(a *app) error {
	ctx := context.Background()

	format := a.cfg.Render.Format
	if c.Format != "" {
		format = c.Format
	}
	if format != "png" && format != "jpg" {
		return fmt.Errorf("unsupported image format %q", format)
	}

	opts := a.cfg.Render.Viewer
	if c.DPI > 0 {
		opts.DPI = c.DPI
	}

	base := c.BaseName
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(c.Input), filepath.Ext(c.Input))
	}

	dec, err := a.open(ctx, c.Input)
	if err != nil {
		return err
	}
	defer a.closeDecoder(ctx, dec)

	count, err := pageCount(ctx, a, dec)
	if err != nil {
		return err
	}

	pages, err := pageRange(c.Pages, count)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, n := range pages {
		n := n

		g.Go(func() error {
			v, err := render.NewViewer(a.queue, dec, viewport.NewFitController(a.cfg.Fit), opts)
			if err != nil {
				return err
			}
			defer v.Close()

			page, err := v.ShowPage(gctx, n)
			if err != nil {
				return fmt.Errorf("page %d: %w", n, err)
			}

			img := page.Image
			if c.Overlay {
				set, err := a.store.Load(markup.Ref{Doc: pageDoc(c.Input, n), Pack: c.Pack})
				if err != nil {
					return err
				}

				if img, err = overlay.Paint(img, page.Frame, set, a.cfg.Overlay); err != nil {
					return fmt.Errorf("page %d: %w", n, err)
				}
			}

			path := pdfutils.PageImagePath(c.Output, base, n-1, format)
			if err := pdfutils.WriteImage(img, path, format, a.cfg.Render.Quality); err != nil {
				return err
			}

			a.log.WithFields(logrus.Fields{"page": n, "path": path}).Info("page rendered")

			return nil
		})
	}

	return g.Wait()
}

type importSummary struct {
	Page      int `json:"page"`
	Polylines int `json:"polylines"`
	Polygons  int `json:"polygons"`
	Skipped   int `json:"skipped"`
}

type importCmd struct {
	Page  int    `help:"Page to import. Defaults to every page"`
	Pack  string `help:"Annotation pack to import into"`
	Input string `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (c *importCmd) Run(a *app) error {
	ctx := context.Background()

	dec, err := a.open(ctx, c.Input)
	if err != nil {
		return err
	}
	defer a.closeDecoder(ctx, dec)

	count, err := pageCount(ctx, a, dec)
	if err != nil {
		return err
	}

	sel := ""
	if c.Page > 0 {
		sel = fmt.Sprint(c.Page)
	}

	pages, err := pageRange(sel, count)
	if err != nil {
		return err
	}

	ids := map[string]bool{}
	summaries := []importSummary{}

	for _, n := range pages {
		var shapes []*pdfutils.Shape

		err := a.queue.Do(ctx, func(ctx context.Context) error {
			page, err := dec.Reader().GetPage(n)
			if err != nil {
				return err
			}

			shapes, err = pdfutils.ImportPageShapes(n-1, page, ids)
			return err
		})
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}

		_, store, err := a.workspace(pageDoc(c.Input, n), c.Pack)
		if err != nil {
			return err
		}

		s := importSummary{Page: n}

		for _, shape := range shapes {
			points := make([]markup.Point, len(shape.Points))
			for i, p := range shape.Points {
				points[i] = markup.PointFrom(p)
			}

			ok := false
			switch shape.Kind {
			case pdfutils.Polygon:
				_, ok = store.AddPolygon(markup.Polygon{ID: shape.ID, Points: points, Label: shape.Label, Color: shape.Color})
				if ok {
					s.Polygons++
				}
			default:
				_, ok = store.AddPolyline(markup.Polyline{ID: shape.ID, Points: points, Label: shape.Label, Color: shape.Color})
				if ok {
					s.Polylines++
				}
			}

			if !ok {
				s.Skipped++
			}
		}

		summaries = append(summaries, s)
	}

	return writeJSON(os.Stdout, summaries)
}

type calibrateCmd struct {
	Page     int    `default:"1" help:"Page to calibrate"`
	Pack     string `help:"Annotation pack to calibrate"`
	From     string `required:"" help:"First point in page units, x,y"`
	To       string `required:"" help:"Second point in page units, x,y"`
	Distance string `required:"" help:"Real-world distance between the points"`
	Unit     string `required:"" help:"Unit of the distance, such as m or ft"`
	Input    string `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (c *calibrateCmd) Run(a *app) error {
	ctx := context.Background()

	dec, err := a.open(ctx, c.Input)
	if err != nil {
		return err
	}
	defer a.closeDecoder(ctx, dec)

	frame, err := pageFrame(ctx, a, dec, c.Page)
	if err != nil {
		return err
	}

	_, store, err := a.workspace(pageDoc(c.Input, c.Page), c.Pack)
	if err != nil {
		return err
	}

	s := markup.NewSession(store)
	s.SelectTool(markup.ToolCalibrate)

	for _, arg := range []string{c.From, c.To} {
		p, err := parsePoint(arg)
		if err != nil {
			return err
		}
		if !frame.Contains(p.R2()) {
			return fmt.Errorf("point %s is outside the %vx%v page", arg, frame.Width, frame.Height)
		}

		s.Click(p)
	}

	if !s.ApplyCalibration(c.Distance, c.Unit) {
		return errors.New("calibration needs two distinct points and a positive distance")
	}

	return writeJSON(os.Stdout, store.Calibration())
}

type drawCmd struct {
	Kind   string  `enum:"line,area,count" default:"line" help:"What to draw: line, area or count"`
	Points string  `required:"" help:"Points separated by semicolons, such as 10,10;50,10"`
	Zoom   float64 `help:"Treat points as pixel positions on a page shown at this zoom"`
	Label  string  `help:"Label of the shape or markers"`
	Type   string  `help:"Count type"`
	Icon   string  `help:"Count marker icon"`
	Color  string  `help:"Color as #rrggbb"`
	Page   int     `default:"1" help:"Page to draw on"`
	Pack   string  `help:"Annotation pack to draw into"`
	Input  string  `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (c *drawCmd) Run(a *app) error {
	ctx := context.Background()

	dec, err := a.open(ctx, c.Input)
	if err != nil {
		return err
	}
	defer a.closeDecoder(ctx, dec)

	frame, err := pageFrame(ctx, a, dec, c.Page)
	if err != nil {
		return err
	}

	_, store, err := a.workspace(pageDoc(c.Input, c.Page), c.Pack)
	if err != nil {
		return err
	}

	s := markup.NewSession(store)

	switch c.Kind {
	case "area":
		s.SelectTool(markup.ToolPolygon)
	case "count":
		s.SelectTool(markup.ToolCount)
		s.SetCountTool(markup.CountTool{Type: c.Type, Icon: c.Icon, Color: c.Color})
	default:
		s.SelectTool(markup.ToolPolyline)
	}

	if err := clickPoints(s, c.Points, c.Zoom, frame); err != nil {
		return err
	}

	if c.Kind == "count" {
		if countOf(store, c.Type) == 0 {
			return errors.New("count markers need a type")
		}

		return writeJSON(os.Stdout, store.Groups())
	}

	id, ok := s.Finish(c.Label)
	if !ok {
		return fmt.Errorf("not enough points for a %s or invalid color", c.Kind)
	}

	rows, err := export.Rows(store.Snapshot(), a.cfg.Export)
	if err != nil {
		return err
	}

	a.log.WithField("id", id).Info("shape added")

	return writeJSON(os.Stdout, rows)
}

type exportCmd struct {
	Output    string `short:"o" type:"path" help:"Directory to write the CSV to. Defaults to stdout"`
	Page      int    `default:"1" help:"Page to export"`
	Pack      string `help:"Annotation pack to export"`
	Unit      string `short:"u" help:"Convert calibrated quantities to this unit"`
	Precision int    `default:"-1" help:"Decimals to round quantities to. Defaults to the configured precision"`
	Colors    bool   `help:"Write the color family of each shape in the notes column"`
	Input     string `arg:"" name:"input" help:"Path to input PDF" type:"path"`
}

func (c *exportCmd) Run(a *app) error {
	opts := a.cfg.Export
	if c.Unit != "" {
		opts.Unit = c.Unit
	}
	if c.Precision >= 0 {
		opts.Precision = c.Precision
	}
	if c.Colors {
		opts.ColorNotes = true
	}

	doc := pageDoc(c.Input, c.Page)

	set, err := a.store.Load(markup.Ref{Doc: doc, Pack: c.Pack})
	if err != nil {
		return err
	}

	if c.Output != "" {
		return export.Export(export.FileSink{Dir: c.Output}, c.Input, set, opts)
	}

	rows, err := export.Rows(set, opts)
	if err != nil {
		return err
	}

	return export.WriteCSV(os.Stdout, rows, opts)
}
