package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newUsersCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage user records",
	}
	ccmd.AddCommand(newUsersListCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newUsersGetCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newUsersAddCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newUsersUpdateCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newUsersGroupsCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newUsersAppsCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newBulkModeCommand("bulk-update", "update", stdin, stdout, stderr))
	ccmd.AddCommand(newBulkModeCommand("bulk-add", "add", stdin, stdout, stderr))
	for _, verb := range []string{
		"activate", "deactivate", "reactivate",
		"suspend", "unsuspend", "unlock", "delete",
		"reset-password", "expire-password",
	} {
		ccmd.AddCommand(newUsersLifecycleCommand(verb, stdin, stdout, stderr))
	}
	return ccmd
}

func newUsersListCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersListCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringVar(&cmd.Filter, "filter", "", "server-side filter expression")
	flags.StringVar(&cmd.Search, "search", "", "server-side search expression")
	flags.StringArrayVarP(&cmd.Match, "match", "m", nil, "local field=value match, repeatable")
	flags.IntVar(&cmd.Limit, "limit", 0, "stop after this many records")
	return ccmd
}

func newUsersGetCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersGetCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "get USER",
		Short: "Show one user by id, login or unique name",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.User = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newUsersAddCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersAddCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user from -s field=value pairs",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringArrayVarP(&cmd.Set, "set", "s", nil, "field=value to set, repeatable")
	flags.BoolVar(&cmd.Activate, "activate", cmd.Activate, "activate the user on creation")
	flags.BoolVar(&cmd.Provider, "provider", false, "let the authentication provider handle credentials")
	flags.BoolVar(&cmd.NextLogin, "next-login", false, "require a password change at next login")
	flags.StringSliceVar(&cmd.GroupIDs, "group", nil, "group id to add the user to, repeatable")
	return ccmd
}

func newUsersUpdateCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersUpdateCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "update USER",
		Short: "Partially update a user from -s field=value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.User = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringArrayVarP(&cmd.Set, "set", "s", nil, "field=value to set, repeatable")
	return ccmd
}

func newUsersLifecycleCommand(verb string, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersLifecycleCommand(verb, stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   verb + " USER",
		Short: "Apply the " + verb + " transition to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.User = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	flags.BoolVar(&cmd.SendEmail, "send-email", false, "notify the user by email where supported")
	if verb == "expire-password" {
		flags.BoolVar(&cmd.TempPassword, "temp-password", false, "set a temporary password")
	}
	return ccmd
}

func newUsersGroupsCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersGroupsCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "groups USER",
		Short: "List the groups a user belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.User = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newUsersAppsCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewUsersAppsCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "apps USER",
		Short: "List the applications assigned to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.User = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}
