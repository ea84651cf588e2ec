package ctl

import (
	"context"
	"fmt"
	"io"
	"os"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/config"
	"github.com/dsctl/dsctl/errors"
)

// ConfigNewCommand creates or replaces a connection profile.
type ConfigNewCommand struct {
	Name  string
	URL   string
	Token string

	*dsctl.CmdIO
}

func NewConfigNewCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigNewCommand {
	return &ConfigNewCommand{
		CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr),
		Name:  "default",
	}
}

func (cmd *ConfigNewCommand) Run(ctx context.Context) error {
	if cmd.URL == "" || cmd.Token == "" {
		return errors.New(errors.ErrBadConfig, "both --url and --token are required")
	}
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, errors.ErrBadConfig) {
		return err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]config.Profile{}
	}
	cfg.Profiles[cmd.Name] = config.Profile{URL: cmd.URL, Token: cmd.Token}
	if cfg.Default == "" {
		cfg.Default = cmd.Name
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "profile %q saved\n", cmd.Name)
	return nil
}

// ConfigListCommand prints the known profile names, marking the default.
type ConfigListCommand struct {
	*dsctl.CmdIO
}

func NewConfigListCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigListCommand {
	return &ConfigListCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *ConfigListCommand) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, name := range cfg.Names() {
		marker := " "
		if name == cfg.Default {
			marker = "*"
		}
		fmt.Fprintf(cmd.Stdout, "%s %s\n", marker, name)
	}
	return nil
}

// ConfigUseCommand sets the default profile.
type ConfigUseCommand struct {
	Name string

	*dsctl.CmdIO
}

func NewConfigUseCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigUseCommand {
	return &ConfigUseCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *ConfigUseCommand) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[cmd.Name]; !ok {
		return errors.Newf(errors.ErrNotFound, "no profile named %q", cmd.Name)
	}
	cfg.Default = cmd.Name
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "default profile is now %q\n", cmd.Name)
	return nil
}

// ConfigCurrentCommand prints the name and URL of the default profile.
type ConfigCurrentCommand struct {
	*dsctl.CmdIO
}

func NewConfigCurrentCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigCurrentCommand {
	return &ConfigCurrentCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *ConfigCurrentCommand) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	p, err := cfg.Active("")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "%s (%s)\n", cfg.Default, p.URL)
	return nil
}

// ConfigFileCommand prints the path of the configuration file.
type ConfigFileCommand struct {
	*dsctl.CmdIO
}

func NewConfigFileCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigFileCommand {
	return &ConfigFileCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *ConfigFileCommand) Run(ctx context.Context) error {
	path, err := config.File()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(cmd.Stdout, "%s (missing)\n", path)
		return nil
	}
	fmt.Fprintln(cmd.Stdout, path)
	return nil
}

// ConfigDeleteCommand removes a profile. Deleting the default leaves no
// default; a remaining single profile becomes implicit default again.
type ConfigDeleteCommand struct {
	Name string

	*dsctl.CmdIO
}

func NewConfigDeleteCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigDeleteCommand {
	return &ConfigDeleteCommand{CmdIO: dsctl.NewCmdIO(stdin, stdout, stderr)}
}

func (cmd *ConfigDeleteCommand) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[cmd.Name]; !ok {
		return errors.Newf(errors.ErrNotFound, "no profile named %q", cmd.Name)
	}
	delete(cfg.Profiles, cmd.Name)
	if cfg.Default == cmd.Name {
		cfg.Default = ""
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Stdout, "profile %q deleted\n", cmd.Name)
	return nil
}
