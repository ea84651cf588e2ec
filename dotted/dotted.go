// Package dotted addresses values inside nested string-keyed documents
// using "a.b.c" path notation. It is the shared vocabulary between the
// tabular projector, the local filter evaluator, and output rendering.
package dotted

import (
	"sort"
	"strings"

	"github.com/dsctl/dsctl/errors"
)

// Document is a nested mapping as produced by projecting tabular rows or
// by decoding JSON objects from the directory service. Values are scalars
// or further mappings.
type Document = map[string]interface{}

// SplitPath validates path and returns its segments. A path with any
// zero-length segment (empty path, "a..b", leading or trailing dot) fails
// with ErrInvalidPath.
func SplitPath(path string) ([]string, error) {
	segs := strings.Split(path, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, errors.Newf(errors.ErrInvalidPath, "invalid path %q: empty segment", path)
		}
	}
	return segs, nil
}

// Get traverses doc along path and returns the value found there. A
// missing intermediate key, or an intermediate which is not a mapping,
// yields (nil, false) rather than an error: lookups must be total over
// arbitrary documents. An invalid path also reports (nil, false).
func Get(doc Document, path string) (interface{}, bool) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, false
	}
	cur := doc
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Set stores value at path, creating intermediate mappings as needed. If
// an intermediate key already holds a non-mapping, Set fails with
// ErrPathConflict and leaves doc unmodified: the whole chain is checked
// before the first write, so a failed Set never partially mutates.
func Set(doc Document, path string, value interface{}) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}

	// Walk as far as existing intermediates go, verifying each is a
	// mapping, before creating anything.
	cur := doc
	for i, seg := range segs[:len(segs)-1] {
		v, ok := cur[seg]
		if !ok {
			// Everything below here is fresh; no conflict possible.
			for _, rest := range segs[i : len(segs)-1] {
				next := map[string]interface{}{}
				cur[rest] = next
				cur = next
			}
			cur[segs[len(segs)-1]] = value
			return nil
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return errors.Newf(errors.ErrPathConflict,
				"path %q: segment %q already holds a non-mapping value", path, seg)
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
	return nil
}

// FromFlat builds a Document from flat dotted-key/value pairs. Keys from
// defaults are applied first, then overridden by flat, matching how bulk
// command defaults layer under per-row values.
func FromFlat(flat map[string]string, defaults map[string]string) (Document, error) {
	doc := Document{}
	for _, m := range []map[string]string{defaults, flat} {
		for _, key := range sortedKeys(m) {
			if err := Set(doc, key, m[key]); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// Flatten converts a nested document into a flat mapping with dotted
// keys. Non-mapping values are carried over untouched.
func Flatten(doc Document) map[string]interface{} {
	flat := map[string]interface{}{}
	flatten(doc, "", flat)
	return flat
}

func flatten(doc Document, prefix string, out map[string]interface{}) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			flatten(sub, key, out)
			continue
		}
		out[key] = v
	}
}

// Keys returns the sorted dotted paths of every leaf in doc. Sorting
// keeps iteration order stable for output rendering.
func Keys(doc Document) []string {
	flat := Flatten(doc)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
