package ctl

import (
	"strings"

	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/config"
	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/filter"
	"github.com/dsctl/dsctl/logger"
)

// commandClient builds a client for the named profile (empty means the
// configured default). Commands that already carry a Client (tests) use
// that one instead.
func commandClient(profileName string, existing *client.Client, log logger.Logger, opts ...client.Option) (*client.Client, error) {
	if existing != nil {
		return existing, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	prof, err := cfg.Active(profileName)
	if err != nil {
		return nil, err
	}
	c, err := client.New(prof.URL, prof.Token, append([]client.Option{client.OptLogger(log)}, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "creating client")
	}
	return c, nil
}

// parsePairs turns repeated "key=value" flags into a map. The key keeps
// everything before the first '='.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Errorf("expected key=value, got %q", pair)
		}
		out[k] = v
	}
	return out, nil
}

// parseMatches compiles repeated "-m field=value" flags into filter
// expressions. Matches are contains-style and case-insensitive, the
// loose matching people expect from a search flag; exact matching is
// what full filter expressions are for.
func parseMatches(pairs []string) ([]*filter.Expr, error) {
	exprs := make([]*filter.Expr, 0, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidFilterSyntax, "expected field=value, got %q", pair)
		}
		e, err := filter.Parse(k + ` co "` + v + `"`)
		if err != nil {
			return nil, err
		}
		e.Fold = true
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// nameMatcher matches a document whose field at path contains value,
// case-insensitively. Used when resolving names and labels to records.
func nameMatcher(path, value string) func(dotted.Document) bool {
	value = strings.ToLower(value)
	return func(doc dotted.Document) bool {
		v, ok := dotted.Get(doc, path)
		if !ok {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), value)
	}
}
