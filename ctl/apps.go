package ctl

import (
	"context"
	"fmt"
	"io"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/filter"
)

// AppsListCommand lists applications.
type AppsListCommand struct {
	Profile string

	Query  string
	Filter string
	Match  []string

	Output OutputOptions
	Client *client.Client

	*dsctl.CmdIO
}

func NewAppsListCommand(stdin io.Reader, stdout, stderr io.Writer) *AppsListCommand {
	return &AppsListCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

const defaultAppFields = "id,status,name,label"

func (cmd *AppsListCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	exprs, err := parseMatches(cmd.Match)
	if err != nil {
		return err
	}
	docs, err := c.ListApps(ctx, cmd.Query, cmd.Filter)
	if err != nil {
		return err
	}
	docs = filter.MatchAll(docs, exprs)
	return writeDocs(cmd.Stdout, docs, cmd.Output, defaultAppFields)
}

// AppsGetCommand fetches one application by id or a unique label
// fragment.
type AppsGetCommand struct {
	Profile string
	App     string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewAppsGetCommand(stdin io.Reader, stdout, stderr io.Writer) *AppsGetCommand {
	return &AppsGetCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func findApp(ctx context.Context, c *client.Client, name string) (dotted.Document, error) {
	return c.FindOne(ctx, "apps", name, nil, func(doc dotted.Document) bool {
		return nameMatcher("label", name)(doc) || nameMatcher("name", name)(doc)
	})
}

func (cmd *AppsGetCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findApp(ctx, c, cmd.App)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, doc, cmd.Output)
}

// AppsUsersCommand lists the users assigned to an application.
type AppsUsersCommand struct {
	Profile string
	App     string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewAppsUsersCommand(stdin io.Reader, stdout, stderr io.Writer) *AppsUsersCommand {
	return &AppsUsersCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *AppsUsersCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findApp(ctx, c, cmd.App)
	if err != nil {
		return err
	}
	users, err := c.AppUsers(ctx, client.ID(doc))
	if err != nil {
		return err
	}
	return writeDocs(cmd.Stdout, users, cmd.Output, defaultUserFields)
}

// AppsAssignCommand assigns a user to an application, or removes the
// assignment.
type AppsAssignCommand struct {
	Profile string
	App     string
	User    string
	Remove  bool

	Client *client.Client

	*dsctl.CmdIO
}

func NewAppsAssignCommand(stdin io.Reader, stdout, stderr io.Writer) *AppsAssignCommand {
	return &AppsAssignCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *AppsAssignCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	app, err := findApp(ctx, c, cmd.App)
	if err != nil {
		return err
	}
	user, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	appID, userID := client.ID(app), client.ID(user)
	if cmd.Remove {
		if err := c.RemoveUserFromApp(ctx, appID, userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Stdout, "removed %s from %s\n", userID, appID)
		return nil
	}
	if _, err := c.AssignUserToApp(ctx, appID, userID, nil); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "assigned %s to %s\n", userID, appID)
	return nil
}
