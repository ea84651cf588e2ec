// Package project converts flat tabular rows into the nested profile
// documents sent to the directory service, resolving each row's identity
// key along the way.
package project

import (
	"strings"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/tabular"
)

// Mode selects between creating new records and updating existing ones.
type Mode int

const (
	ModeAdd Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeAdd {
		return "add"
	}
	return "update"
}

// Profile is one projected record: the nested document to send plus the
// resolved identity key. Identity is empty in add mode (the remote
// service assigns the identifier) except when the row carries a login.
type Profile struct {
	Identity string
	Doc      dotted.Document
	Row      int
}

// Project builds a Profile from row.
//
// Columns whose header contains no "." are not projected; they may carry
// caller-side metadata that the remote API must never see. Blank cells
// are projected as empty strings so the service can distinguish
// "clear this field" from "field not supplied".
//
// In update mode the identity comes from a non-blank "id" cell, else
// from "profile.login"; the cell that supplied it is consumed. In add
// mode a non-blank "id" cell is an error: adding a record with a
// pre-assigned remote identifier is not supported.
func Project(row tabular.Row, mode Mode, defaults map[string]string) (*Profile, error) {
	p := &Profile{Row: row.Index}

	consumed := ""
	switch mode {
	case ModeUpdate:
		if id := row.Values["id"]; id != "" {
			p.Identity = id
			consumed = "id"
		} else if login := row.Values["profile.login"]; login != "" {
			p.Identity = login
			consumed = "profile.login"
		} else {
			return nil, errors.Newf(errors.ErrMissingIdentityKey,
				"row %d: no id or profile.login column value", row.Index)
		}
	case ModeAdd:
		if id := row.Values["id"]; id != "" {
			return nil, errors.Newf(errors.ErrUnexpectedIdentityKey,
				"row %d: id column must be absent when adding records", row.Index)
		}
		p.Identity = row.Values["profile.login"]
	}

	flat := make(map[string]string, len(row.Values))
	for _, col := range row.Columns {
		if col == consumed || !strings.Contains(col, ".") {
			continue
		}
		flat[col] = row.Values[col]
	}

	doc, err := dotted.FromFlat(flat, defaults)
	if err != nil {
		return nil, errors.Wrapf(err, "row %d", row.Index)
	}
	p.Doc = doc
	return p, nil
}
