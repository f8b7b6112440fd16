package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgmeyers/pdftakeoff/markup"
)

// WriteCSV writes rows as RFC 4180 delimited text. Fields containing the
// separator, quotes or line breaks are quoted.
func WriteCSV(w io.Writer, rows []Row, opts Options) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if opts.IncludeHeader {
		if err := cw.Write(Header); err != nil {
			return err
		}
	}

	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// Sink receives an exported file and hands it to the user.
type Sink interface {
	Save(name string, data []byte) error
}

// FileSink writes exports into Dir.
type FileSink struct {
	Dir string
}

func (s FileSink) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.Dir, name), data, 0644)
}

// FileName suggests an export file name for a document.
func FileName(doc string) string {
	base := filepath.Base(doc)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "takeoff"
	}

	return base + "-quantities.csv"
}

// Export formats set and saves it through sink.
func Export(sink Sink, doc string, set *markup.Set, opts Options) error {
	rows, err := Rows(set, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, opts); err != nil {
		return err
	}

	return sink.Save(FileName(doc), buf.Bytes())
}
