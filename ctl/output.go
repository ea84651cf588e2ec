package ctl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"gopkg.in/yaml.v2"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
)

// OutputOptions selects the rendering of command results. The zero
// value renders a table over the command's default fields.
type OutputOptions struct {
	JSON     bool
	YAML     bool
	CSV      bool
	Fields   string // comma-separated dotted paths for table/CSV output
	ColWidth int    // clamp table cells; 0 means unlimited
}

// writeDocs renders documents in the selected format. defaultFields is
// the command's table column set, overridden by --fields.
func writeDocs(w io.Writer, docs []dotted.Document, opts OutputOptions, defaultFields string) error {
	switch {
	case opts.JSON:
		return writeJSON(w, docs)
	case opts.YAML:
		return writeYAML(w, docs)
	case opts.CSV:
		return writeCSV(w, docs, fieldList(docs, opts.Fields, defaultFields))
	default:
		return writeTable(w, docs, fieldList(docs, opts.Fields, defaultFields), opts.ColWidth)
	}
}

// writeDoc renders a single document; tables make no sense for one
// record, so the default is JSON.
func writeDoc(w io.Writer, doc dotted.Document, opts OutputOptions) error {
	if opts.YAML {
		return writeYAML(w, doc)
	}
	return writeJSON(w, doc)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}

func writeYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	_, err = w.Write(out)
	return err
}

// fieldList resolves the columns to render: the --fields override, the
// command default, or every dotted key present in the first document.
func fieldList(docs []dotted.Document, override, fallback string) []string {
	spec := override
	if spec == "" {
		spec = fallback
	}
	if spec != "" {
		return strings.Split(spec, ",")
	}
	if len(docs) == 0 {
		return nil
	}
	return dotted.Keys(docs[0])
}

func cellValue(doc dotted.Document, field string, maxLen int) string {
	v, ok := dotted.Get(doc, field)
	if !ok || v == nil {
		return ""
	}
	s := fmt.Sprintf("%v", v)
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		s = string([]rune(s)[:maxLen])
	}
	return s
}

func writeTable(w io.Writer, docs []dotted.Document, fields []string, colWidth int) error {
	if len(docs) == 0 {
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = true

	header := make(table.Row, len(fields))
	for i, f := range fields {
		header[i] = f
	}
	t.AppendHeader(header)
	for _, doc := range docs {
		row := make(table.Row, len(fields))
		for i, f := range fields {
			row[i] = cellValue(doc, f, colWidth)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

func writeCSV(w io.Writer, docs []dotted.Document, fields []string) error {
	if len(fields) == 0 {
		// no field spec: union of all dotted keys, sorted
		seen := map[string]bool{}
		for _, doc := range docs {
			for _, k := range dotted.Keys(doc) {
				seen[k] = true
			}
		}
		for k := range seen {
			fields = append(fields, k)
		}
		sort.Strings(fields)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, doc := range docs {
		rec := make([]string, len(fields))
		for i, f := range fields {
			rec[i] = cellValue(doc, f, 0)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
