package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dsctl/dsctl/ctl"
)

func newFeaturesCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ccmd := &cobra.Command{
		Use:     "features",
		Aliases: []string{"feature"},
		Short:   "Manage tenant feature flags",
	}
	ccmd.AddCommand(newFeaturesListCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newFeaturesGetCommand(stdin, stdout, stderr))
	ccmd.AddCommand(newFeaturesSetCommand(stdin, stdout, stderr, true))
	ccmd.AddCommand(newFeaturesSetCommand(stdin, stdout, stderr, false))
	ccmd.AddCommand(newFeaturesRelatedCommand(stdin, stdout, stderr, true))
	ccmd.AddCommand(newFeaturesRelatedCommand(stdin, stdout, stderr, false))
	return ccmd
}

func newFeaturesListCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewFeaturesListCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "list",
		Short: "List feature flags",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.StringArrayVarP(&cmd.Match, "match", "m", nil, "local field=value match, repeatable")
	flags.IntVar(&cmd.Limit, "limit", 0, "stop after this many records")
	return ccmd
}

func newFeaturesGetCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := ctl.NewFeaturesGetCommand(stdin, stdout, stderr)
	ccmd := &cobra.Command{
		Use:   "get FEATURE",
		Short: "Show one feature by id or unique name",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Feature = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}

func newFeaturesSetCommand(stdin io.Reader, stdout, stderr io.Writer, enable bool) *cobra.Command {
	cmd := ctl.NewFeaturesSetCommand(stdin, stdout, stderr, enable)
	use, short := "disable FEATURE", "Turn a feature off"
	if enable {
		use, short = "enable FEATURE", "Turn a feature on"
	}
	ccmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Feature = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	flags.BoolVar(&cmd.Force, "force", false, "also flip dependent or prerequisite features")
	return ccmd
}

func newFeaturesRelatedCommand(stdin io.Reader, stdout, stderr io.Writer, dependents bool) *cobra.Command {
	cmd := ctl.NewFeaturesRelatedCommand(stdin, stdout, stderr, dependents)
	use, short := "dependencies FEATURE", "List the features a feature depends on"
	if dependents {
		use, short = "dependents FEATURE", "List the features depending on a feature"
	}
	ccmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd.Feature = args[0]
			return cmd.Run(c.Context())
		},
	}
	flags := ccmd.Flags()
	profileFlag(flags, &cmd.Profile)
	outputFlags(flags, &cmd.Output)
	return ccmd
}
