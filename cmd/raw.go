package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newRawCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewRawCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "raw METHOD ENDPOINT",
		Short: "Call an arbitrary API endpoint",
		Long: `raw calls any API endpoint directly, for operations no subcommand
covers. METHOD is get, post, put or delete; ENDPOINT is the path under
the API base, e.g. "users/me".`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Method = args[0]
			cmd.Endpoint = args[1]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringArrayVarP(&cmd.Query, "query", "q", nil, "query parameter key=value, repeatable")
	flags.StringVarP(&cmd.Body, "body", "b", "", "JSON request body, or FILE:<path>")
	flags.StringVar(&cmd.BasePath, "base-path", "", "override the API path prefix")
	return ccmd
}
