package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
)

// Retrieve looks something up by probable identifier first, falling back
// to a list call refined by match. It can return zero, one or many
// documents; callers that need exactly one use FindOne.
func (c *Client) Retrieve(ctx context.Context, resource, possibleID string, params url.Values, match func(dotted.Document) bool) ([]dotted.Document, error) {
	if possibleID != "" {
		doc, err := c.Call(ctx, http.MethodGet, "/"+resource+"/"+url.PathEscape(possibleID), nil, nil)
		if err == nil {
			return []dotted.Document{doc}, nil
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return nil, err
		}
		// unknown id: fall through to the list lookup
	}

	docs, err := c.List(ctx, "/"+resource, params, 0)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return docs, nil
	}
	kept := docs[:0:0]
	for _, doc := range docs {
		if match(doc) {
			kept = append(kept, doc)
		}
	}
	return kept, nil
}

// FindOne is Retrieve with a uniqueness requirement: no match and
// ambiguous matches are both errors, so commands never act on the wrong
// record.
func (c *Client) FindOne(ctx context.Context, resource, possibleID string, params url.Values, match func(dotted.Document) bool) (dotted.Document, error) {
	docs, err := c.Retrieve(ctx, resource, possibleID, params, match)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return nil, errors.Newf(errors.ErrNotFound, "no matching %s found", resource)
	case 1:
		return docs[0], nil
	default:
		return nil, errors.Newf(errors.ErrNotUnique,
			"name for %s must be unique (found %d matches)", resource, len(docs))
	}
}
