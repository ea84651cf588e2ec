package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dsctl/dsctl/dotted"
)

// ListApps retrieves applications; query matches labels, filterQuery
// passes through server side.
func (c *Client) ListApps(ctx context.Context, query, filterQuery string) ([]dotted.Document, error) {
	params := url.Values{}
	if filterQuery != "" {
		params.Set("filter", filterQuery)
	} else if query != "" {
		params.Set("q", query)
	}
	return c.List(ctx, "/apps", params, 0)
}

func (c *Client) GetApp(ctx context.Context, id string) (dotted.Document, error) {
	return c.Call(ctx, http.MethodGet, "/apps/"+url.PathEscape(id), nil, nil)
}

// AppUsers lists the users assigned to an application.
func (c *Client) AppUsers(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/apps/"+url.PathEscape(id)+"/users", nil, 0)
}

// AssignUserToApp assigns a user, optionally with app-specific profile
// fields.
func (c *Client) AssignUserToApp(ctx context.Context, appID, userID string, profile dotted.Document) (dotted.Document, error) {
	body := dotted.Document{"id": userID}
	for k, v := range profile {
		body[k] = v
	}
	return c.Call(ctx, http.MethodPost, "/apps/"+url.PathEscape(appID)+"/users", nil, body)
}

// RemoveUserFromApp unassigns a user from an application.
func (c *Client) RemoveUserFromApp(ctx context.Context, appID, userID string) error {
	_, err := c.Call(ctx, http.MethodDelete,
		"/apps/"+url.PathEscape(appID)+"/users/"+url.PathEscape(userID), nil, nil)
	return err
}
