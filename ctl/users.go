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

// UsersListCommand lists user records, optionally narrowed by a remote
// filter/search expression and by local match expressions evaluated
// after retrieval.
type UsersListCommand struct {
	Profile string

	// Remote narrowing, forwarded to the service.
	Filter string
	Search string

	// Match holds local expressions ("profile.city eq \"Reno\"")
	// applied to the retrieved records.
	Match []string

	Limit  int
	Output OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersListCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersListCommand {
	return &UsersListCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

// defaultUserFields are the table columns shown when -f is not given.
const defaultUserFields = "id,status,profile.login,profile.firstName,profile.lastName,profile.email"

func (cmd *UsersListCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	exprs, err := parseMatches(cmd.Match)
	if err != nil {
		return err
	}
	docs, err := c.ListUsers(ctx, cmd.Filter, cmd.Search, cmd.Limit)
	if err != nil {
		return err
	}
	docs = filter.MatchAll(docs, exprs)
	return writeDocs(cmd.Stdout, docs, cmd.Output, defaultUserFields)
}

// UsersGetCommand fetches a single user by id, login, or a unique name
// fragment.
type UsersGetCommand struct {
	Profile string
	User    string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersGetCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersGetCommand {
	return &UsersGetCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *UsersGetCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, doc, cmd.Output)
}

// findUser resolves name to a single user: a direct id/login lookup
// first, then a unique match on login or real name.
func findUser(ctx context.Context, c *client.Client, name string) (dotted.Document, error) {
	return c.FindOne(ctx, "users", name, nil, func(doc dotted.Document) bool {
		return nameMatcher("profile.login", name)(doc) ||
			nameMatcher("profile.email", name)(doc) ||
			nameMatcher("profile.lastName", name)(doc)
	})
}

// UsersAddCommand creates one user from -s field pairs.
type UsersAddCommand struct {
	Profile string

	Set       []string
	Activate  bool
	Provider  bool
	NextLogin bool
	GroupIDs  []string

	Output OutputOptions
	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersAddCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersAddCommand {
	return &UsersAddCommand{
		CmdIO:    dsctl.NewCmdIO(stdin, stdout, stderr),
		Activate: true,
	}
}

func (cmd *UsersAddCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	pairs, err := parsePairs(cmd.Set)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return errors.New(errors.ErrBadConfig, "at least one -s field=value is required")
	}
	doc, err := dotted.FromFlat(pairs, nil)
	if err != nil {
		return err
	}
	created, err := c.AddUser(ctx, doc, client.AddUserOptions{
		Activate:  cmd.Activate,
		Provider:  cmd.Provider,
		NextLogin: cmd.NextLogin,
		GroupIDs:  cmd.GroupIDs,
	})
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, created, cmd.Output)
}

// UsersUpdateCommand partially updates one user from -s field pairs.
type UsersUpdateCommand struct {
	Profile string
	User    string
	Set     []string

	Output OutputOptions
	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersUpdateCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersUpdateCommand {
	return &UsersUpdateCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *UsersUpdateCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	pairs, err := parsePairs(cmd.Set)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return errors.New(errors.ErrBadConfig, "at least one -s field=value is required")
	}
	doc, err := dotted.FromFlat(pairs, nil)
	if err != nil {
		return err
	}
	target, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	updated, err := c.UpdateUser(ctx, client.ID(target), doc)
	if err != nil {
		return err
	}
	return writeDoc(cmd.Stdout, updated, cmd.Output)
}

// UsersLifecycleCommand covers the single-verb state transitions
// (activate, deactivate, suspend, ...) that differ only in the endpoint
// they hit.
type UsersLifecycleCommand struct {
	Profile string
	Verb    string
	User    string

	// SendEmail asks the service to notify the user where the
	// transition supports it; TempPassword applies to expire-password.
	SendEmail    bool
	TempPassword bool

	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersLifecycleCommand(verb string, stdin io.Reader, stdout, stderr io.Writer) *UsersLifecycleCommand {
	return &UsersLifecycleCommand{
		CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr),
		Verb:  verb,
	}
}

func (cmd *UsersLifecycleCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	id := client.ID(doc)

	var verbErr error
	switch cmd.Verb {
	case "activate":
		_, verbErr = c.ActivateUser(ctx, id, cmd.SendEmail)
	case "deactivate":
		verbErr = c.DeactivateUser(ctx, id, cmd.SendEmail)
	case "reactivate":
		_, verbErr = c.ReactivateUser(ctx, id, cmd.SendEmail)
	case "suspend":
		verbErr = c.SuspendUser(ctx, id)
	case "unsuspend":
		verbErr = c.UnsuspendUser(ctx, id)
	case "unlock":
		verbErr = c.UnlockUser(ctx, id)
	case "delete":
		verbErr = c.DeleteUser(ctx, id, cmd.SendEmail)
	case "reset-password":
		_, verbErr = c.ResetPassword(ctx, id, cmd.SendEmail)
	case "expire-password":
		_, verbErr = c.ExpirePassword(ctx, id, cmd.TempPassword)
	default:
		return errors.Errorf("unknown lifecycle verb %q", cmd.Verb)
	}
	if verbErr != nil {
		return verbErr
	}
	fmt.Fprintf(cmd.Stdout, "%s: %s\n", cmd.Verb, id)
	return nil
}

// UsersGroupsCommand lists the groups a user belongs to.
type UsersGroupsCommand struct {
	Profile string
	User    string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersGroupsCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersGroupsCommand {
	return &UsersGroupsCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *UsersGroupsCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	groups, err := c.UserGroups(ctx, client.ID(doc))
	if err != nil {
		return err
	}
	return writeDocs(cmd.Stdout, groups, cmd.Output, defaultGroupFields)
}

// UsersAppsCommand lists the applications assigned to a user.
type UsersAppsCommand struct {
	Profile string
	User    string
	Output  OutputOptions

	Client *client.Client

	*dsctl.CmdIO
}

func NewUsersAppsCommand(stdin io.Reader, stdout, stderr io.Writer) *UsersAppsCommand {
	return &UsersAppsCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *UsersAppsCommand) Run(ctx context.Context) error {
	c, err := commandClient(cmd.Profile, cmd.Client, cmd.Logger())
	if err != nil {
		return err
	}
	doc, err := findUser(ctx, c, cmd.User)
	if err != nil {
		return err
	}
	apps, err := c.UserApps(ctx, client.ID(doc))
	if err != nil {
		return err
	}
	return writeDocs(cmd.Stdout, apps, cmd.Output, defaultAppFields)
}
