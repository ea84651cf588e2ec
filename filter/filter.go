// Package filter parses and evaluates small comparison expressions of
// the shape `path op "literal"` against nested documents. The operator
// set follows the directory service's own filter dialect so that local
// refinement and server-side filters read the same.
package filter

import (
	"fmt"
	"strings"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
)

// Op is a comparison operator.
type Op string

// Supported operators. The ordering operators gt and lt compare the
// string forms lexically; they exist for status/date style fields where
// that ordering is meaningful.
const (
	OpEq Op = "eq" // equal
	OpNe Op = "ne" // not equal
	OpCo Op = "co" // contains
	OpSw Op = "sw" // starts with
	OpEw Op = "ew" // ends with
	OpGt Op = "gt"
	OpLt Op = "lt"
	OpPr Op = "pr" // present (no literal)
	OpNp Op = "np" // not present (no literal)
)

var ops = map[string]Op{
	"eq": OpEq, "ne": OpNe, "co": OpCo, "sw": OpSw, "ew": OpEw,
	"gt": OpGt, "lt": OpLt, "pr": OpPr, "np": OpNp,
}

// Expr is a parsed filter expression. Fold makes comparisons
// case-insensitive; it is off by default and enabled per call site
// (name and login searches), never globally.
type Expr struct {
	Path    string
	Op      Op
	Literal string
	Fold    bool
}

// Parse builds an Expr from a string like `profile.status eq "ACTIVE"`.
// The literal may be double-quoted or bare; a bare literal runs to the
// end of the string. pr and np take no literal. Anything else fails with
// InvalidFilterSyntax, at parse time, so a bad filter surfaces before
// any data is touched.
func Parse(s string) (*Expr, error) {
	fail := func(why string) error {
		return errors.Newf(errors.ErrInvalidFilterSyntax, "filter %q: %s", s, why)
	}

	rest := strings.TrimSpace(s)
	if rest == "" {
		return nil, fail("empty expression")
	}

	sp := strings.IndexAny(rest, " \t")
	if sp < 0 {
		return nil, fail("expected `path op [literal]`")
	}
	path := rest[:sp]
	if _, err := dotted.SplitPath(path); err != nil {
		return nil, fail("bad path")
	}
	rest = strings.TrimSpace(rest[sp:])

	opStr := rest
	if sp = strings.IndexAny(rest, " \t"); sp >= 0 {
		opStr = rest[:sp]
		rest = strings.TrimSpace(rest[sp:])
	} else {
		rest = ""
	}
	op, ok := ops[strings.ToLower(opStr)]
	if !ok {
		return nil, fail(fmt.Sprintf("unknown operator %q", opStr))
	}

	expr := &Expr{Path: path, Op: op}
	switch op {
	case OpPr, OpNp:
		if rest != "" {
			return nil, fail(string(op) + " takes no literal")
		}
		return expr, nil
	}

	if rest == "" {
		return nil, fail(string(op) + " needs a literal")
	}
	if strings.HasPrefix(rest, `"`) {
		if len(rest) < 2 || !strings.HasSuffix(rest, `"`) {
			return nil, fail("unterminated quoted literal")
		}
		rest = rest[1 : len(rest)-1]
	}
	expr.Literal = rest
	return expr, nil
}

// Match evaluates the expression against doc. An absent value matches
// only np; every other operator reports no match. Match never errors:
// filtering has to be total over arbitrary documents.
func (e *Expr) Match(doc dotted.Document) bool {
	v, ok := dotted.Get(doc, e.Path)
	switch e.Op {
	case OpPr:
		return ok
	case OpNp:
		return !ok
	}
	if !ok {
		return false
	}

	have := stringify(v)
	want := e.Literal
	if e.Fold {
		have = strings.ToLower(have)
		want = strings.ToLower(want)
	}

	switch e.Op {
	case OpEq:
		return have == want
	case OpNe:
		return have != want
	case OpCo:
		return strings.Contains(have, want)
	case OpSw:
		return strings.HasPrefix(have, want)
	case OpEw:
		return strings.HasSuffix(have, want)
	case OpGt:
		return have > want
	case OpLt:
		return have < want
	}
	return false
}

// MatchAll keeps the documents matched by every expression.
func MatchAll(docs []dotted.Document, exprs []*Expr) []dotted.Document {
	if len(exprs) == 0 {
		return docs
	}
	out := docs[:0:0]
	for _, doc := range docs {
		keep := true
		for _, e := range exprs {
			if !e.Match(doc) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, doc)
		}
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
