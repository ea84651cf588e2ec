package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	dsctl "github.com/dsctl/dsctl"
	"github.com/dsctl/dsctl/bulk"
	"github.com/dsctl/dsctl/client"
	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/project"
	"github.com/dsctl/dsctl/tabular"
)

// BulkCommand synchronizes records from a CSV or XLSX file into the
// directory service: one add or update per data row, dispatched across
// a worker pool, with one outcome per row in file order.
type BulkCommand struct {
	// Profile selects the connection profile; empty means the default.
	Profile string

	// Path of the input file. The first row is the header; columns
	// without a "." are ignored.
	Path string

	// Mode is "add" or "update".
	Mode string

	// Set holds default field values ("profile.site=HQ") applied under
	// each row.
	Set []string

	// Resume/windowing controls.
	JumpToIndex int
	JumpToKey   string
	Limit       int

	// Workers bounds the concurrent remote calls.
	Workers int

	// Add-mode creation switches.
	Activate  bool
	Provider  bool
	NextLogin bool

	// ReportDir receives the ok/errors report files; empty means the
	// current directory.
	ReportDir string

	// Reusable client; built from Profile when nil.
	Client *client.Client

	*dsctl.CmdIO
}

// NewBulkCommand returns a new instance of BulkCommand.
func NewBulkCommand(stdin io.Reader, stdout, stderr io.Writer) *BulkCommand {
	return &BulkCommand{
		CmdIO:    dsctl.NewCmdIO(stdin, stdout, stderr),
		Mode:     "update",
		Workers:  bulk.DefaultWorkers,
		Activate: true,
	}
}

// Run executes the bulk synchronization.
func (cmd *BulkCommand) Run(ctx context.Context) error {
	log := cmd.Logger()

	if cmd.Path == "" {
		return errors.New(errors.ErrBadConfig, "input file required")
	}
	var mode project.Mode
	switch cmd.Mode {
	case "add":
		mode = project.ModeAdd
	case "update":
		mode = project.ModeUpdate
	default:
		return errors.Errorf("mode must be add or update, got %q", cmd.Mode)
	}
	defaults, err := parsePairs(cmd.Set)
	if err != nil {
		return errors.Wrap(err, "parsing -s flags")
	}
	if cmd.JumpToIndex > 0 && cmd.JumpToKey != "" {
		return errors.New(errors.ErrBadConfig, "--jump-to-index and --jump-to-user are mutually exclusive")
	}

	c, err := commandClient(cmd.Profile, cmd.Client, log)
	if err != nil {
		return err
	}

	src, err := tabular.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer src.Close()
	if cmd.JumpToKey != "" {
		src = tabular.SkipToKey(src, cmd.JumpToKey)
	} else if cmd.JumpToIndex > 0 {
		src = tabular.Skip(src, cmd.JumpToIndex)
	}
	src = tabular.Limit(src, cmd.Limit)

	op := cmd.operation(c, mode)

	log.Printf("bulk %s from %s: this may take a while", cmd.Mode, cmd.Path)
	runner := bulk.NewRunner(cmd.Workers, log)
	rep, err := runner.Run(ctx, bulk.Jobs(src, mode, defaults), op)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	if err := cmd.writeReports(rep); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Stdout, rep.Summary())

	if rep.Failed > 0 {
		return errors.Newf(errors.ErrRemoteOperationFailed,
			"%d of %d rows failed", rep.Failed, rep.Total)
	}
	return nil
}

func (cmd *BulkCommand) operation(c *client.Client, mode project.Mode) bulk.Op {
	if mode == project.ModeAdd {
		opts := client.AddUserOptions{
			Activate:  cmd.Activate,
			Provider:  cmd.Provider,
			NextLogin: cmd.NextLogin,
		}
		return func(ctx context.Context, p *project.Profile) (string, error) {
			return c.AddRecord(ctx, p.Doc, opts)
		}
	}
	return func(ctx context.Context, p *project.Profile) (string, error) {
		return c.UpdateRecord(ctx, p.Identity, p.Doc)
	}
}

// bulkReportEntry is one line of the ok/errors report files.
type bulkReportEntry struct {
	Row    int                    `json:"row"`
	ID     string                 `json:"id,omitempty"`
	Status string                 `json:"status"`
	Error  string                 `json:"error,omitempty"`
	Doc    map[string]interface{} `json:"document,omitempty"`
}

// writeReports dumps per-row outcomes into timestamped JSON files, one
// for successes and one for everything else, mirroring the summary on
// stdout. Empty groups get no file.
func (cmd *BulkCommand) writeReports(rep *bulk.Report) error {
	var ok, bad []bulkReportEntry
	for _, o := range rep.Outcomes {
		entry := bulkReportEntry{Row: o.Row, ID: o.ID, Status: o.Status.String(), Doc: o.Doc}
		if o.Err != nil {
			entry.Error = o.Err.Error()
		}
		if o.Status == bulk.Success {
			ok = append(ok, entry)
		} else {
			bad = append(bad, entry)
		}
	}

	stamp := time.Now().Format("20060102_150405")
	groups := []struct {
		name    string
		entries []bulkReportEntry
	}{{"ok", ok}, {"errors", bad}}
	for _, g := range groups {
		name, entries := g.name, g.entries
		if len(entries) == 0 {
			fmt.Fprintf(cmd.Stdout, "%4d %s\n", 0, name)
			continue
		}
		file := filepath.Join(cmd.ReportDir, fmt.Sprintf("dsctl-bulk-%s-%s.json", stamp, name))
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding report")
		}
		if err := os.WriteFile(file, out, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", file)
		}
		fmt.Fprintf(cmd.Stdout, "%4d %-6s - %s\n", len(entries), name, file)
	}
	return nil
}
