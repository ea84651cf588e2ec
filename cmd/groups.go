package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newGroupsCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage groups",
	}
	ccmd.AddCommand(newGroupsListCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newGroupsGetCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newGroupsAddCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newGroupsDeleteCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newGroupsUsersCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newGroupsAddUserCommand(stdin, stdout, stderr, false))
	ccmd.AddCommand(newGroupsAddUserCommand(stdin, stdout, stderr, true))
	ccmd.AddCommand(newGroupsClearCommand(stdin, stdout, stderr))
	return ccmd
}

func newGroupsClearCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsClearCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "clear GROUP",
		Short: "Remove all members from a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Group = args[0]
			return cmd.Run(c.Context())
		},
	}
	profileFlag(ccmd.Flags(), &cmd.Profile)
	return ccmd
}

func newGroupsListCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsListCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringVarP(&cmd.Query, "query", "q", "", "server-side name prefix query")
	flags.StringVar(&cmd.Filter, "filter", "", "server-side filter expression")
	flags.StringArrayVarP(&cmd.Match, "match", "m", nil, "local field=value match, repeatable")
	return ccmd
}

func newGroupsGetCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsGetCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "get GROUP",
		Short: "Show one group by id or unique name",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Group = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newGroupsAddCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsAddCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Name = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringVarP(&cmd.Description, "description", "d", "", "group description")
	return ccmd
}

func newGroupsDeleteCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsDeleteCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "delete GROUP",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Group = args[0]
			return cmd.Run(c.Context())
		},
	}
	profileFlag(ccmd.Flags(), &cmd.Profile)
	return ccmd
}

func newGroupsUsersCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewGroupsUsersCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "users GROUP",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Group = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newGroupsAddUserCommand(stdin io.Reader, stdout, stderr io.Writer, remove bool) *cobra.Command {
	cmd := ctl.NewGroupsAddUserCommand(stdin, stdout, stderr)
	cmd.Remove = remove
	use, short := "adduser GROUP USER", "Add a user to a group"
	if remove {
		use, short = "removeuser GROUP USER", "Remove a user from a group"
	}
	ccmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Group, cmd.User = args[0], args[1]
			return cmd.Run(c.Context())
		},
	}
	profileFlag(ccmd.Flags(), &cmd.Profile)
	return ccmd
}
