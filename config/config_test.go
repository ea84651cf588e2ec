package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsctl/dsctl/errors"
)

func withTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DSCTL_CONFIG", path)
	return path
}

func TestLoadUnconfigured(t *testing.T) {
	withTempConfig(t)
	_, err := Load()
	require.True(t, errors.Is(err, errors.ErrBadConfig), "got %v", err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := withTempConfig(t)

	cfg := &Config{
		Default: "prod",
		Profiles: map[string]Profile{
			"prod":    {URL: "https://tenant.example.com", Token: "tok-prod"},
			"sandbox": {URL: "https://sandbox.example.com", Token: "tok-sb"},
		},
	}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", got.Default)
	assert.Equal(t, cfg.Profiles, got.Profiles)
	assert.Equal(t, []string{"prod", "sandbox"}, got.Names())
}

func TestSingleProfileIsImplicitDefault(t *testing.T) {
	withTempConfig(t)
	cfg := &Config{
		Default:  "gone",
		Profiles: map[string]Profile{"only": {URL: "https://x.example.com", Token: "t"}},
	}
	require.NoError(t, cfg.Save())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "only", got.Default)
}

func TestMissingDefaultProfile(t *testing.T) {
	withTempConfig(t)
	cfg := &Config{
		Default: "gone",
		Profiles: map[string]Profile{
			"a": {URL: "https://a.example.com", Token: "t"},
			"b": {URL: "https://b.example.com", Token: "t"},
		},
	}
	require.NoError(t, cfg.Save())

	_, err := Load()
	require.True(t, errors.Is(err, errors.ErrBadConfig), "got %v", err)
}

func TestActive(t *testing.T) {
	cfg := &Config{
		Default: "prod",
		Profiles: map[string]Profile{
			"prod":    {URL: "https://tenant.example.com", Token: "tok"},
			"sandbox": {URL: "https://sb.example.com", Token: "tok2"},
		},
	}

	p, err := cfg.Active("")
	require.NoError(t, err)
	assert.Equal(t, "https://tenant.example.com", p.URL)

	p, err = cfg.Active("sandbox")
	require.NoError(t, err)
	assert.Equal(t, "https://sb.example.com", p.URL)

	_, err = cfg.Active("nope")
	assert.True(t, errors.Is(err, errors.ErrBadConfig))
}
