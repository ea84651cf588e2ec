package ctl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsctl/dsctl/errors"
)

func configEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DSCTL_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
}

func runConfigNew(t *testing.T, name, url, token string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewConfigNewCommand(strings.NewReader(""), &out, &out)
	cmd.Name = name
	cmd.URL = url
	cmd.Token = token
	require.NoError(t, cmd.Run(context.Background()))
	return out.String()
}

func TestConfigNewAndList(t *testing.T) {
	configEnv(t)

	runConfigNew(t, "default", "https://tenant.example.com", "tok1")
	runConfigNew(t, "staging", "https://staging.example.com", "tok2")

	var out bytes.Buffer
	list := NewConfigListCommand(strings.NewReader(""), &out, &out)
	require.NoError(t, list.Run(context.Background()))
	assert.Equal(t, "* default\n  staging\n", out.String())
}

func TestConfigNewRequiresURLAndToken(t *testing.T) {
	configEnv(t)
	var out bytes.Buffer
	cmd := NewConfigNewCommand(strings.NewReader(""), &out, &out)
	cmd.URL = "https://tenant.example.com"
	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadConfig))
}

func TestConfigUseAndCurrent(t *testing.T) {
	configEnv(t)
	runConfigNew(t, "default", "https://tenant.example.com", "tok1")
	runConfigNew(t, "staging", "https://staging.example.com", "tok2")

	var out bytes.Buffer
	use := NewConfigUseCommand(strings.NewReader(""), &out, &out)
	use.Name = "staging"
	require.NoError(t, use.Run(context.Background()))

	out.Reset()
	cur := NewConfigCurrentCommand(strings.NewReader(""), &out, &out)
	require.NoError(t, cur.Run(context.Background()))
	assert.Equal(t, "staging (https://staging.example.com)\n", out.String())

	use.Name = "nope"
	err := use.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestConfigDelete(t *testing.T) {
	configEnv(t)
	runConfigNew(t, "default", "https://tenant.example.com", "tok1")
	runConfigNew(t, "staging", "https://staging.example.com", "tok2")

	var out bytes.Buffer
	del := NewConfigDeleteCommand(strings.NewReader(""), &out, &out)
	del.Name = "default"
	require.NoError(t, del.Run(context.Background()))

	// the single remaining profile becomes the implicit default
	out.Reset()
	cur := NewConfigCurrentCommand(strings.NewReader(""), &out, &out)
	require.NoError(t, cur.Run(context.Background()))
	assert.Equal(t, "staging (https://staging.example.com)\n", out.String())
}

func TestCommandClientUnconfigured(t *testing.T) {
	configEnv(t)
	var out bytes.Buffer
	cmd := NewUsersListCommand(strings.NewReader(""), &out, &out)
	err := cmd.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadConfig))
}
