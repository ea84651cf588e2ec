package filter

import (
	"testing"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
)

var doc = dotted.Document{
	"status": "ACTIVE",
	"profile": map[string]interface{}{
		"login":     "Jane.Doe@example.com",
		"firstName": "Jane",
		"logins":    float64(7),
	},
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"status",
		"status eqq \"ACTIVE\"",
		"status eq",
		"status pr \"x\"",
		"status eq \"unterminated",
		"sta..tus eq \"x\"",
	}
	for _, s := range bad {
		if _, err := Parse(s); !errors.Is(err, errors.ErrInvalidFilterSyntax) {
			t.Errorf("Parse(%q): expected InvalidFilterSyntax, got %v", s, err)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`status eq "ACTIVE"`, true},
		{`status eq "active"`, false}, // case-sensitive by default
		{`status ne "DEPROVISIONED"`, true},
		{`profile.login co "Doe"`, true},
		{`profile.login sw "Jane"`, true},
		{`profile.login ew ".com"`, true},
		{`profile.firstName eq Jane`, true}, // bare literal
		{`profile.logins eq "7"`, true},     // numeric leaf, string compare
		{`status gt "ABC"`, true},
		{`status lt "ABC"`, false},
		{`profile.login pr`, true},
		{`profile.missing pr`, false},
		{`profile.missing np`, true},
		// absent values match nothing but np
		{`profile.missing eq ""`, false},
		{`profile.missing ne "x"`, false},
		{`profile.login.too.deep co "x"`, false},
	}
	for _, tt := range tests {
		e, err := Parse(tt.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.expr, err)
		}
		if got := e.Match(doc); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	e, err := Parse(`status eq "active"`)
	if err != nil {
		t.Fatal(err)
	}
	e.Fold = true
	if !e.Match(doc) {
		t.Fatal("folded comparison should match")
	}
}

func TestMatchAll(t *testing.T) {
	docs := []dotted.Document{
		{"status": "ACTIVE", "type": "user"},
		{"status": "ACTIVE", "type": "admin"},
		{"status": "SUSPENDED", "type": "user"},
	}
	e1, _ := Parse(`status eq "ACTIVE"`)
	e2, _ := Parse(`type eq "user"`)
	got := MatchAll(docs, []*Expr{e1, e2})
	if len(got) != 1 || got[0]["type"] != "user" {
		t.Fatalf("MatchAll = %+v", got)
	}
}
