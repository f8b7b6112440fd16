package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/mgmeyers/unipdf/v3/model"

	"github.com/mgmeyers/pdftakeoff/pdfutils"
	"github.com/mgmeyers/pdftakeoff/viewport"
)

// Decoder turns pages of one document into frames and rasters. Decoders
// are not safe for concurrent use; only jobs running on a Queue may call
// them.
type Decoder interface {
	PageCount() (int, error)
	// Frame returns the displayed size of page n (1-based) in page units.
	Frame(n int) (viewport.Frame, error)
	// Render rasterizes page n at the given resolution.
	Render(n int, dpi float64) (image.Image, error)
	Close() error
}

// Page is a decoded page.
type Page struct {
	Number int
	Frame  viewport.Frame
	Image  image.Image
}

// PDFDecoder reads page geometry with unipdf and rasterizes with MuPDF.
type PDFDecoder struct {
	pdf *model.PdfReader
	img *fitz.Document
}

// OpenPDF parses document bytes.
func OpenPDF(data []byte) (*PDFDecoder, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	imgDoc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open raster document: %w", err)
	}

	return &PDFDecoder{pdf: pdfReader, img: imgDoc}, nil
}

// Reader exposes the parsed document for annotation import and text.
func (d *PDFDecoder) Reader() *model.PdfReader {
	return d.pdf
}

func (d *PDFDecoder) PageCount() (int, error) {
	return d.pdf.GetNumPages()
}

func (d *PDFDecoder) Frame(n int) (viewport.Frame, error) {
	page, err := d.pdf.GetPage(n)
	if err != nil {
		return viewport.Frame{}, err
	}

	g, err := pdfutils.GetPageGeometry(page)
	if err != nil {
		return viewport.Frame{}, err
	}

	w, h := g.Size()

	return viewport.Frame{Width: w, Height: h}, nil
}

func (d *PDFDecoder) Render(n int, dpi float64) (image.Image, error) {
	if n < 1 || n > d.img.NumPage() {
		return nil, fmt.Errorf("page %d out of range", n)
	}

	return d.img.ImageDPI(n-1, dpi)
}

func (d *PDFDecoder) Close() error {
	return d.img.Close()
}
