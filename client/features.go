package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dsctl/dsctl/dotted"
)

// ListFeatures retrieves the tenant's feature flags.
func (c *Client) ListFeatures(ctx context.Context, limit int) ([]dotted.Document, error) {
	return c.List(ctx, "/features", nil, limit)
}

// SetFeature flips one feature on or off. When force is set the service
// also flips whatever the feature depends on (or whatever depends on
// it, going the other way).
func (c *Client) SetFeature(ctx context.Context, id string, enable, force bool) (dotted.Document, error) {
	verb := "disable"
	if enable {
		verb = "enable"
	}
	var params url.Values
	if force {
		params = url.Values{"mode": []string{"force"}}
	}
	return c.Call(ctx, http.MethodPost, "/features/"+url.PathEscape(id)+"/"+verb, params, nil)
}

// FeatureDependents lists the features that depend on the given one.
func (c *Client) FeatureDependents(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/features/"+url.PathEscape(id)+"/dependents", nil, 0)
}

// FeatureDependencies lists the features the given one depends on.
func (c *Client) FeatureDependencies(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/features/"+url.PathEscape(id)+"/dependencies", nil, 0)
}
