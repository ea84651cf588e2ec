package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dsctl/dsctl/dotted"
)

// ListGroups retrieves groups; query matches against group names,
// filterQuery passes through as the service-side filter expression.
func (c *Client) ListGroups(ctx context.Context, query, filterQuery string) ([]dotted.Document, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if filterQuery != "" {
		params.Set("filter", filterQuery)
	}
	return c.List(ctx, "/groups", params, 0)
}

func (c *Client) GetGroup(ctx context.Context, id string) (dotted.Document, error) {
	return c.Call(ctx, http.MethodGet, "/groups/"+url.PathEscape(id), nil, nil)
}

// AddGroup creates a group with the given name and description.
func (c *Client) AddGroup(ctx context.Context, name, description string) (dotted.Document, error) {
	body := dotted.Document{
		"profile": map[string]interface{}{
			"name":        name,
			"description": description,
		},
	}
	return c.Call(ctx, http.MethodPost, "/groups", nil, body)
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	_, err := c.Call(ctx, http.MethodDelete, "/groups/"+url.PathEscape(id), nil, nil)
	return err
}

// GroupUsers lists a group's members.
func (c *Client) GroupUsers(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/groups/"+url.PathEscape(id)+"/users", nil, 0)
}

// GroupApps lists the applications assigned to a group.
func (c *Client) GroupApps(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/groups/"+url.PathEscape(id)+"/apps", nil, 0)
}

// AddUserToGroup puts a user into a group.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID string) error {
	_, err := c.Call(ctx, http.MethodPut,
		"/groups/"+url.PathEscape(groupID)+"/users/"+url.PathEscape(userID), nil, nil)
	return err
}

// RemoveUserFromGroup takes a user out of a group.
func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID string) error {
	_, err := c.Call(ctx, http.MethodDelete,
		"/groups/"+url.PathEscape(groupID)+"/users/"+url.PathEscape(userID), nil, nil)
	return err
}
