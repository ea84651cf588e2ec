package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:   "config",
		Short: "Manage connection profiles",
	}
	ccmd.AddCommand(newConfigNewCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newConfigListCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newConfigUseCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newConfigCurrentCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newConfigFileCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newConfigDeleteCommand(stdin, stdout, stderr))
	return ccmd
}

func newConfigNewCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigNewCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "new",
		Short: "Create or replace a connection profile",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	flags.StringVarP(&cmd.Name, "name", "n", cmd.Name, "profile name")
	flags.StringVar(&cmd.URL, "url", "", "tenant base URL")
	flags.StringVar(&cmd.Token, "token", "", "API token")
	return ccmd
}

func newConfigListCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigListCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "list",
		Short: "List connection profiles",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
}

func newConfigUseCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigUseCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Name = args[0]
			return cmd.Run(c.Context())
		},
	}
}

func newConfigCurrentCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigCurrentCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "current",
		Short: "Show the default profile",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
}

func newConfigFileCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigFileCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "file",
		Short: "Show the configuration file path",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
}

func newConfigDeleteCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewConfigDeleteCommand(stdin, stdout, stderr)
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a connection profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Name = args[0]
			return cmd.Run(c.Context())
		},
	}
}
