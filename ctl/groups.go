package ctl

import (
	"context"
	"fmt"
	"io"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/filter"
)

// GroupsListCommand lists groups.
type GroupsListCommand struct {
	Profile string

	Query  string
	Filter string
	Match  []string

	Output OutputOptions
	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsListCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsListCommand {
	return &GroupsListCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

const defaultGroupFields = "id,type,profile.name,profile.description"

func (cmd *GroupsListCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	exprs, err := parseMatches(cmd.Match)
	if err != nil {
		return err
	}
	docs, err := c.ListGroups(ctx, cmd.Query, cmd.Filter)
	if err != nil {
		return err
	}
	docs = filter.MatchAll(docs, exprs)
	return writeDocs(cmd.Stdout, docs, cmd.Output, defaultGroupFields)
}

// GroupsGetCommand fetches one group by id or a unique name fragment.
type GroupsGetCommand struct {
	Profile string
	Group   string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsGetCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsGetCommand {
	return &GroupsGetCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func findGroup(ctx context.Context, c *client.Client, name string) (dotted.Document, error) {
	return c.FindOne(ctx, "groups", name, nil, nameMatcher("profile.name", name))
}

func (cmd *GroupsGetCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findGroup(ctx, c, cmd.Group)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, doc, cmd.Output)
}

// GroupsAddCommand creates a group.
type GroupsAddCommand struct {
	Profile     string
	Name        string
	Description string
	Output      OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsAddCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsAddCommand {
	return &GroupsAddCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *GroupsAddCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := c.AddGroup(ctx, cmd.Name, cmd.Description)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, doc, cmd.Output)
}

// GroupsDeleteCommand removes a group.
type GroupsDeleteCommand struct {
	Profile string
	Group   string

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsDeleteCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsDeleteCommand {
	return &GroupsDeleteCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *GroupsDeleteCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findGroup(ctx, c, cmd.Group)
	if err != nil {
		return err
	}
	id := client.ID(doc)
	if err := c.DeleteGroup(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "deleted: %s\n", id)
	return nil
}

// GroupsUsersCommand lists the members of a group.
type GroupsUsersCommand struct {
	Profile string
	Group   string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsUsersCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsUsersCommand {
	return &GroupsUsersCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *GroupsUsersCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findGroup(ctx, c, cmd.Group)
	if err != nil {
		return err
	}
	users, err := c.GroupUsers(ctx, client.ID(doc))
	if err != nil {
		return err
	}
	return writeDocs(cmd.Stdout, users, cmd.Output, defaultUserFields)
}

// GroupsClearCommand removes every member from a group.
type GroupsClearCommand struct {
	Profile string
	Group   string

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsClearCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsClearCommand {
	return &GroupsClearCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *GroupsClearCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	group, err := findGroup(ctx, c, cmd.Group)
	if err != nil {
		return err
	}
	groupID := client.ID(group)
	users, err := c.GroupUsers(ctx, groupID)
	if err != nil {
		return err
	}
	for _, u := range users {
		userID := client.ID(u)
		if err := c.RemoveUserFromGroup(ctx, groupID, userID); err != nil {
			return errors.Wrapf(err, "removing %s", userID)
		}
		cmd.Logger().Debugf("removed %s from %s", userID, groupID)
	}
	fmt.Fprintf(cmd.Stdout, "removed %d users from %s\n", len(users), groupID)
	return nil
}

// GroupsAddUserCommand puts a user into a group; the reverse command
// takes them out again.
type GroupsAddUserCommand struct {
	Profile string
	Group   string
	User    string
	Remove  bool

	Client *client.Client

	*dsctl.CmdIO
}

func NewGroupsAddUserCommand(stdin io.Reader, stdout, stderr io.Writer) *GroupsAddUserCommand {
	return &GroupsAddUserCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *GroupsAddUserCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	group, err := findGroup(ctx, c, cmd.Group)
	if err != nil {
		return err
	}
	user, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	groupID, userID := client.ID(group), client.ID(user)
	if cmd.Remove {
		if err := c.RemoveUserFromGroup(ctx, groupID, userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Stdout, "removed %s from %s\n", userID, groupID)
		return nil
	}
	if err := c.AddUserToGroup(ctx, groupID, userID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "added %s to %s\n", userID, groupID)
	return nil
}
