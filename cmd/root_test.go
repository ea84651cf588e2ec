package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsctl/dsctl/cmd"
)

// execRoot runs the dsctl root command with the given arguments and
// returns its combined output.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rc := cmd.NewRootCommand(strings.NewReader(""), &buf, &buf)
	rc.SetArgs(args)
	err := rc.Execute()
	return buf.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := execRoot(t, "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"bulk", "users", "groups", "apps", "features", "raw", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing %q", sub)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execRoot(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("version output is empty")
	}
}

func TestBulkHelp(t *testing.T) {
	out, err := execRoot(t, "bulk", "update", "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, flag := range []string{"--jump-to-index", "--jump-to-user", "--limit", "--workers", "--set"} {
		if !strings.Contains(out, flag) {
			t.Errorf("bulk update help missing %q", flag)
		}
	}
}

// TestBulkInterruptWritesReport runs a bulk update through the full
// command tree with an already-cancelled context, the state the binary
// reaches after Ctrl-C. Every row must still be booked cancelled and
// the report files written; nothing may dial out.
func TestBulkInterruptWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "default = \"test\"\n\n[profiles.test]\nurl = \"http://127.0.0.1:1\"\ntoken = \"t\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DSCTL_CONFIG", cfgPath)

	csvPath := filepath.Join(dir, "input.csv")
	data := "profile.login,profile.city\na@example.com,Reno\nb@example.com,Oslo\n"
	if err := os.WriteFile(csvPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	rc := cmd.NewRootCommand(strings.NewReader(""), &buf, &buf)
	rc.SetArgs([]string{"bulk", "update", csvPath, "--report-dir", dir})
	if err := rc.ExecuteContext(ctx); err != nil {
		t.Fatalf("cancelled run should not fail, got %v", err)
	}
	if !strings.Contains(buf.String(), "2 total: 0 ok, 0 failed, 2 cancelled") {
		t.Errorf("unexpected tally, output:\n%s", buf.String())
	}

	files, err := filepath.Glob(filepath.Join(dir, "dsctl-bulk-*-errors.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one errors report, got %v (%v)", files, err)
	}
	raw, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	var entries []struct {
		Row    int    `json:"row"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != "cancelled" {
			t.Errorf("row %d booked %s, want cancelled", e.Row, e.Status)
		}
	}
}

func TestConfigFileHonorsEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DSCTL_CONFIG", path)
	out, err := execRoot(t, "config", "file")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected %q in output, got %q", path, out)
	}
}
