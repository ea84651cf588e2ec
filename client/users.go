package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dsctl/dsctl/dotted"
)

// ListUsers retrieves users. filterQuery and searchQuery map onto the
// service's `filter` and `search` parameters; filter wins when both are
// given (they are mutually exclusive server side).
func (c *Client) ListUsers(ctx context.Context, filterQuery, searchQuery string, limit int) ([]dotted.Document, error) {
	params := url.Values{}
	if filterQuery != "" {
		params.Set("filter", filterQuery)
	} else if searchQuery != "" {
		params.Set("search", searchQuery)
	}
	params.Set("limit", "1000")
	return c.List(ctx, "/users", params, limit)
}

// GetUser fetches one user by id or login.
func (c *Client) GetUser(ctx context.Context, idOrLogin string) (dotted.Document, error) {
	return c.Call(ctx, http.MethodGet, "/users/"+url.PathEscape(idOrLogin), nil, nil)
}

// AddUserOptions are the query-string switches on user creation.
type AddUserOptions struct {
	Activate  bool
	Provider  bool
	NextLogin bool
	GroupIDs  []string
}

// AddUser creates a user from a profile document and returns the created
// record.
func (c *Client) AddUser(ctx context.Context, doc dotted.Document, opts AddUserOptions) (dotted.Document, error) {
	params := url.Values{}
	params.Set("activate", strconv.FormatBool(opts.Activate))
	params.Set("provider", strconv.FormatBool(opts.Provider))
	if opts.NextLogin {
		params.Set("nextLogin", "changePassword")
	}
	if len(opts.GroupIDs) > 0 {
		doc["groupIds"] = opts.GroupIDs
	}
	return c.Call(ctx, http.MethodPost, "/users", params, doc)
}

// UpdateUser applies a partial profile document to an existing user.
func (c *Client) UpdateUser(ctx context.Context, id string, doc dotted.Document) (dotted.Document, error) {
	return c.Call(ctx, http.MethodPost, "/users/"+url.PathEscape(id), nil, doc)
}

// AddRecord and UpdateRecord are the pair the bulk engine's ops are
// built from: both return the resulting remote identifier.

func (c *Client) AddRecord(ctx context.Context, doc dotted.Document, opts AddUserOptions) (string, error) {
	rsp, err := c.AddUser(ctx, doc, opts)
	if err != nil {
		return "", err
	}
	return ID(rsp), nil
}

func (c *Client) UpdateRecord(ctx context.Context, id string, doc dotted.Document) (string, error) {
	rsp, err := c.UpdateUser(ctx, id, doc)
	if err != nil {
		return "", err
	}
	return ID(rsp), nil
}

func (c *Client) lifecycle(ctx context.Context, id, action string, params url.Values) (dotted.Document, error) {
	return c.Call(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/lifecycle/"+action, params, nil)
}

func sendEmailParams(sendEmail bool) url.Values {
	params := url.Values{}
	if sendEmail {
		params.Set("sendEmail", "true")
	}
	return params
}

func (c *Client) ActivateUser(ctx context.Context, id string, sendEmail bool) (dotted.Document, error) {
	return c.lifecycle(ctx, id, "activate", sendEmailParams(sendEmail))
}

func (c *Client) DeactivateUser(ctx context.Context, id string, sendEmail bool) error {
	_, err := c.lifecycle(ctx, id, "deactivate", sendEmailParams(sendEmail))
	return err
}

func (c *Client) ReactivateUser(ctx context.Context, id string, sendEmail bool) (dotted.Document, error) {
	return c.lifecycle(ctx, id, "reactivate", sendEmailParams(sendEmail))
}

func (c *Client) SuspendUser(ctx context.Context, id string) error {
	_, err := c.lifecycle(ctx, id, "suspend", nil)
	return err
}

func (c *Client) UnsuspendUser(ctx context.Context, id string) error {
	_, err := c.lifecycle(ctx, id, "unsuspend", nil)
	return err
}

func (c *Client) UnlockUser(ctx context.Context, id string) error {
	_, err := c.lifecycle(ctx, id, "unlock", nil)
	return err
}

// DeleteUser removes a user. The service requires the user to be
// deactivated first; that ordering is the caller's concern.
func (c *Client) DeleteUser(ctx context.Context, id string, sendEmail bool) error {
	_, err := c.Call(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), sendEmailParams(sendEmail), nil)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, id string, sendEmail bool) (dotted.Document, error) {
	params := url.Values{}
	params.Set("sendEmail", strconv.FormatBool(sendEmail))
	return c.lifecycle(ctx, id, "reset_password", params)
}

func (c *Client) ExpirePassword(ctx context.Context, id string, tempPassword bool) (dotted.Document, error) {
	params := url.Values{}
	params.Set("tempPassword", strconv.FormatBool(tempPassword))
	return c.lifecycle(ctx, id, "expire_password", params)
}

// UserGroups lists the groups a user belongs to.
func (c *Client) UserGroups(ctx context.Context, id string) ([]dotted.Document, error) {
	return c.List(ctx, "/users/"+url.PathEscape(id)+"/groups", nil, 0)
}

// UserApps lists the application links assigned to a user.
func (c *Client) UserApps(ctx context.Context, id string) ([]dotted.Document, error) {
	params := url.Values{}
	params.Set("filter", "user.id eq \""+id+"\"")
	return c.List(ctx, "/apps", params, 0)
}
