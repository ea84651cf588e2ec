// Package config stores the named connection profiles (base URL + API
// token) dsctl works against, in a TOML file under the user's
// configuration directory.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"

	"github.com/dsctl/dsctl/errors"
)

// Profile is one tenant connection.
type Profile struct {
	URL   string `toml:"url" mapstructure:"url"`
	Token string `toml:"token" mapstructure:"token"`
}

// Config is the on-disk profile store.
type Config struct {
	Default  string             `toml:"default" mapstructure:"default"`
	Profiles map[string]Profile `toml:"profiles" mapstructure:"profiles"`
}

// File returns the config file path, honoring the DSCTL_CONFIG
// environment override.
func File() (string, error) {
	if p := os.Getenv("DSCTL_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user config dir")
	}
	return filepath.Join(dir, "dsctl", "config.toml"), nil
}

// Load reads the profile store. A store with exactly one profile gets
// that profile as its implicit default; a default naming a missing
// profile is an error telling the user to re-point it.
func Load() (*Config, error) {
	path, err := File()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Newf(errors.ErrBadConfig,
			"dsctl is not configured yet; run 'dsctl config new' first")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading configuration file %s", path)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration file %s", path)
	}
	return cfg, cfg.check()
}

func (c *Config) check() error {
	if len(c.Profiles) == 1 {
		for name := range c.Profiles {
			c.Default = name
		}
	}
	if _, ok := c.Profiles[c.Default]; !ok {
		return errors.Newf(errors.ErrBadConfig,
			"default profile %q not configured; use 'dsctl config use' to change it", c.Default)
	}
	return nil
}

// Save writes the store, creating the directory on first use.
func (c *Config) Save() error {
	path, err := File()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating config dir")
	}
	out, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	// the token is a credential; keep the file private
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// Active returns the profile selected by name, or the default profile
// when name is empty.
func (c *Config) Active(name string) (Profile, error) {
	if name == "" {
		name = c.Default
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, errors.Newf(errors.ErrBadConfig, "profile %q not configured", name)
	}
	return p, nil
}

// Names returns the profile names in stable order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
