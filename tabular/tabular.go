// Package tabular reads delimited-text and spreadsheet files into a lazy
// sequence of flat row records. The first row of every source is the
// header; for delimited text the column separator is detected from the
// header line.
package tabular

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsctl/dsctl/errors"
)

// Row is one data row: the header cells in file order plus a mapping
// from header cell to raw value. Index is the 0-based position of the
// row among the data rows of its source.
type Row struct {
	Index   int
	Columns []string
	Values  map[string]string
}

// blank reports whether every cell of the row is empty. Such rows are
// skipped entirely, they do not consume an index.
func (r Row) blank() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Key returns the row's identity cell: "id" if present and non-blank,
// else "profile.login". Used by resume windows, not by projection.
func (r Row) Key() string {
	if id := r.Values["id"]; id != "" {
		return id
	}
	return r.Values["profile.login"]
}

// Source is a finite, one-pass sequence of rows. Next returns io.EOF
// after the last row.
type Source interface {
	Next() (Row, error)
	Close() error
}

// Open returns a Source for path: an XLSX source for ".xlsx" files, a
// CSV source for everything else.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return OpenXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	src, err := NewCSVSource(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	src.closer = f
	return src, nil
}

// separator candidates in precedence order; on a tie the earlier one
// wins. comma, semicolon, tab is the complete set.
var sepCandidates = []rune{',', ';', '\t'}

// detectSeparator picks the candidate occurring most often in the header
// line. No candidate at all means we cannot tell columns apart, so a
// single-column file needs a trailing delimiter on its header. That is a
// documented requirement, not an accident.
func detectSeparator(header string) (rune, error) {
	best, bestCount := rune(0), 0
	for _, cand := range sepCandidates {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	if bestCount == 0 {
		return 0, errors.Newf(errors.ErrSeparatorDetectionFailed,
			"no column separator found in header %q (single-column files need a trailing delimiter)", header)
	}
	return best, nil
}

// CSVSource reads delimited text. The separator is fixed once from the
// header line and the rest of the stream is handed to encoding/csv.
type CSVSource struct {
	header []string
	reader *csv.Reader
	closer io.Closer
	next   int
}

// NewCSVSource consumes the header line of r, detects the separator and
// returns a source positioned at the first data row.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "reading header line")
	}
	line = strings.TrimRight(line, "\r\n")

	sep, err := detectSeparator(line)
	if err != nil {
		return nil, err
	}

	hr := csv.NewReader(strings.NewReader(line))
	hr.Comma = sep
	header, err := hr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "parsing header")
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	return &CSVSource{header: header, reader: cr}, nil
}

// Header returns the column names in file order.
func (s *CSVSource) Header() []string {
	return s.header
}

func (s *CSVSource) Next() (Row, error) {
	for {
		record, err := s.reader.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		} else if err != nil {
			return Row{}, errors.Wrap(err, "reading row")
		}

		values := make(map[string]string, len(s.header))
		for i, name := range s.header {
			if i < len(record) {
				values[name] = record[i]
			} else {
				values[name] = ""
			}
		}
		row := Row{Index: s.next, Columns: s.header, Values: values}
		if row.blank() {
			continue
		}
		s.next++
		return row, nil
	}
}

func (s *CSVSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
