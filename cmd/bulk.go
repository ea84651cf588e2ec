package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dsctl/dsctl/ctl"
)

func newBulkCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:   "bulk",
		Short: "Synchronize user records from a CSV or XLSX file",
		Long: `
Reads a tabular file whose header names dotted profile fields
("profile.login", "profile.city", ...) and performs one add or update
per data row. Outcomes are written to timestamped report files.
`,
	}
	ccmd.AddCommand(newBulkModeCommand("update", "update", stdin, stdout, stderr))
	ccmd.AddCommand(newBulkModeCommand("add", "add", stdin, stdout, stderr))
	return ccmd
}

func newBulkModeCommand(use, mode string, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewBulkCommand(stdin, stdout, stderr)
	cmd.Mode = mode
	ccmd := &cobra.Command{
		Use:   use + " FILE",
		Short: "Bulk-" + mode + " users from FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Path = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	bulkFlags(flags, cmd)
	if mode == "add" {
		flags.BoolVar(&cmd.Activate, "activate", cmd.Activate, "activate created users")
		flags.BoolVar(&cmd.Provider, "provider", false, "let the authentication provider handle credentials")
		flags.BoolVar(&cmd.NextLogin, "next-login", false, "require a password change at next login")
	}
	return ccmd
}

func bulkFlags(flags *pflag.FlagSet, cmd *ctl.BulkCommand) {
	flags.StringArrayVarP(&cmd.Set, "set", "s", nil, "default field=value applied to every row, repeatable")
	flags.IntVar(&cmd.JumpToIndex, "jump-to-index", 0, "skip this many data rows before starting")
	flags.StringVar(&cmd.JumpToKey, "jump-to-user", "", "skip rows until this id or login is found")
	flags.IntVar(&cmd.Limit, "limit", 0, "process at most this many rows")
	flags.IntVar(&cmd.Workers, "workers", cmd.Workers, "number of concurrent requests")
	flags.StringVar(&cmd.ReportDir, "report-dir", "", "directory for the outcome report files")
}
