package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newAppsCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage application assignments",
	}
	ccmd.AddCommand(newAppsListCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newAppsGetCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newAppsUsersCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newAppsAssignCommand(stdin, stdout, stderr, false))
	ccmd.AddCommand(newAppsAssignCommand(stdin, stdout, stderr, true))
	return ccmd
}

func newAppsListCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewAppsListCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringVarP(&cmd.Query, "query", "q", "", "server-side label prefix query")
	flags.StringVar(&cmd.Filter, "filter", "", "server-side filter expression")
	flags.StringArrayVarP(&cmd.Match, "match", "m", nil, "local field=value match, repeatable")
	return ccmd
}

func newAppsGetCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewAppsGetCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "get APP",
		Short: "Show one application by id or unique label",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.App = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newAppsUsersCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewAppsUsersCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "users APP",
		Short: "List the users assigned to an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.App = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newAppsAssignCommand(stdin io.Reader, stdout, stderr io.Writer, remove bool) *cobra.Command {
	cmd := ctl.NewAppsAssignCommand(stdin, stdout, stderr)
	cmd.Remove = remove
	use, short := "adduser APP USER", "Assign a user to an application"
	if remove {
		use, short = "removeuser APP USER", "Remove a user's application assignment"
	}
	ccmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.App, cmd.User = args[0], args[1]
			return cmd.Run(c.Context())
		},
	}
	profileFlag(ccmd.Flags(), &cmd.Profile)
	return ccmd
}
