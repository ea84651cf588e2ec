package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/ctl"
)

// NewRootCommand builds the dsctl command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "dsctl",
		Short: "dsctl administers directory-service identities.",
		Long: `dsctl administers the users, groups and applications of a
directory-service tenant, including bulk synchronization of user
records from CSV or XLSX files.

Version: ` + dsctl.Version + "\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			return setAllConfig(v, cmd.Flags())
		},
	}

	rc.AddCommand(newConfigCommand(stdin, stdout, stderr))
	rc.AddCommand(newUsersCommand(stdin, stdout, stderr))
	rc.AddCommand(newGroupsCommand(stdin, stdout, stderr))
	rc.AddCommand(newAppsCommand(stdin, stdout, stderr))
	rc.AddCommand(newFeaturesCommand(stdin, stdout, stderr))
	rc.AddCommand(newBulkCommand(stdin, stdout, stderr))
	rc.AddCommand(newRawCommand(stdin, stdout, stderr))
	rc.AddCommand(newVersionCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig layers environment variables under the command line:
// every flag can also be set as DSCTL_<FLAG> with dashes and dots
// replaced by underscores.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix("DSCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" || f.Value.Type() == "stringArray" {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		if value == "" {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			flagErr = fmt.Errorf("setting flag %s: %v", f.Name, err)
		}
	})
	return flagErr
}

func newVersionCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dsctl version",
		RunE: func(c *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, dsctl.Version)
			return nil
		},
	}
}

// profileFlag wires the shared -p flag.
func profileFlag(flags *pflag.FlagSet, p *string) {
	flags.StringVarP(p, "profile", "p", "", "connection profile to use (default: the configured default)")
}

// outputFlags wires the shared rendering flags.
func outputFlags(flags *pflag.FlagSet, o *ctl.OutputOptions) {
	flags.BoolVar(&o.JSON, "json", false, "output as JSON")
	flags.BoolVar(&o.YAML, "yaml", false, "output as YAML")
	flags.BoolVar(&o.CSV, "csv", false, "output as CSV")
	flags.StringVarP(&o.Fields, "fields", "f", "", "comma-separated fields to output")
	flags.IntVar(&o.ColWidth, "colwidth", 0, "truncate table cells to this many characters")
}
