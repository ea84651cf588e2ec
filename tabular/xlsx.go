package tabular

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dsctl/dsctl/errors"
)

// XLSXSource reads the first sheet of an Excel workbook. Cells holding a
// formula yield their last-computed value; formula content is never
// interpreted.
type XLSXSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	next   int
}

// OpenXLSX opens the workbook at path positioned at its first data row.
// The first row of the first sheet is always the header.
func OpenXLSX(path string) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, errors.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading sheet %s", sheets[0])
	}
	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, errors.Errorf("workbook %s: sheet %s has no header row", path, sheets[0])
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, errors.Wrap(err, "reading header row")
	}
	return &XLSXSource{file: f, rows: rows, header: header}, nil
}

func (s *XLSXSource) Header() []string {
	return s.header
}

func (s *XLSXSource) Next() (Row, error) {
	for s.rows.Next() {
		cells, err := s.rows.Columns()
		if err != nil {
			return Row{}, errors.Wrap(err, "reading row")
		}
		values := make(map[string]string, len(s.header))
		for i, name := range s.header {
			if i < len(cells) {
				values[name] = cells[i]
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
	if err := s.rows.Error(); err != nil {
		return Row{}, errors.Wrap(err, "iterating rows")
	}
	return Row{}, io.EOF
}

func (s *XLSXSource) Close() error {
	s.rows.Close()
	return s.file.Close()
}
