package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dsctl/dsctl/errors"
)

// Raw performs a request against an arbitrary endpoint and returns the
// decoded JSON as-is. GET responses that come back as arrays follow
// Link rel="next" paging the way List does; `_links` members are
// stripped either way.
func (c *Client) Raw(ctx context.Context, method, path string, params url.Values, body interface{}) (interface{}, error) {
	var items []interface{}

	next := c.endpoint(path)
	last := ""
	for next != "" && next != last {
		resp, err := c.doRaw(ctx, method, next, params, body)
		if err != nil {
			return nil, err
		}
		params, body = nil, nil

		if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, nil
		}
		var v interface{}
		err = json.NewDecoder(resp.Body).Decode(&v)
		resp.Body.Close()
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decoding response")
		}

		page, ok := v.([]interface{})
		if !ok {
			if doc, ok := v.(map[string]interface{}); ok {
				delete(doc, "_links")
			}
			return v, nil
		}
		for _, item := range page {
			if doc, ok := item.(map[string]interface{}); ok {
				delete(doc, "_links")
			}
		}
		items = append(items, page...)

		if method != http.MethodGet {
			break
		}
		last = next
		next = nextLink(resp.Header)
	}
	return items, nil
}
