package bulk

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/logger"
	"github.com/dsctl/dsctl/project"
	"github.com/dsctl/dsctl/tabular"
)

func sliceSource(jobs []Job) JobSource {
	i := 0
	return func() (Job, error) {
		if i == len(jobs) {
			return Job{}, io.EOF
		}
		j := jobs[i]
		i++
		return j, nil
	}
}

func makeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Row: i, Profile: &project.Profile{
			Identity: fmt.Sprintf("user%d", i),
			Doc:      map[string]interface{}{"n": i},
			Row:      i,
		}}
	}
	return jobs
}

// N records, K induced remote failures: exactly N outcomes in input
// order with K failures, for every pool size from 1 through N.
func TestRunOrderedOutcomes(t *testing.T) {
	const n = 20
	failRows := map[int]bool{2: true, 7: true, 19: true}

	for workers := 1; workers <= n; workers++ {
		op := func(ctx context.Context, p *project.Profile) (string, error) {
			if failRows[p.Row] {
				return "", errors.Errorf("boom on %d", p.Row)
			}
			return "id-" + p.Identity, nil
		}
		r := NewRunner(workers, logger.NopLogger)
		rep, err := r.Run(context.Background(), sliceSource(makeJobs(n)), op)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if rep.Total != n || len(rep.Outcomes) != n {
			t.Fatalf("workers=%d: total=%d outcomes=%d", workers, rep.Total, len(rep.Outcomes))
		}
		if rep.Failed != len(failRows) || rep.Succeeded != n-len(failRows) {
			t.Fatalf("workers=%d: %s", workers, rep.Summary())
		}
		for i, o := range rep.Outcomes {
			if o.Row != i {
				t.Fatalf("workers=%d: outcome %d has row %d", workers, i, o.Row)
			}
			if failRows[i] {
				if o.Status != Failure || !errors.Is(o.Err, errors.ErrRemoteOperationFailed) {
					t.Fatalf("workers=%d row %d: %v %v", workers, i, o.Status, o.Err)
				}
			} else if o.Status != Success || o.ID != fmt.Sprintf("id-user%d", i) {
				t.Fatalf("workers=%d row %d: %v %q", workers, i, o.Status, o.ID)
			}
		}
	}
}

// Projection failures book a Failure outcome without the op ever seeing
// the row.
func TestRunProjectionErrorIsolated(t *testing.T) {
	jobs := makeJobs(3)
	jobs[1] = Job{Row: 1, Err: errors.New(errors.ErrMissingIdentityKey, "row 1: no id")}

	var calls int32
	op := func(ctx context.Context, p *project.Profile) (string, error) {
		atomic.AddInt32(&calls, 1)
		return p.Identity, nil
	}
	rep, err := NewRunner(4, logger.NopLogger).Run(context.Background(), sliceSource(jobs), op)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("op called %d times, want 2", calls)
	}
	if rep.Failed != 1 || rep.Succeeded != 2 {
		t.Fatalf("tally: %s", rep.Summary())
	}
	if !errors.Is(rep.Outcomes[1].Err, errors.ErrMissingIdentityKey) {
		t.Fatalf("outcome err: %v", rep.Outcomes[1].Err)
	}
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := func(ctx context.Context, p *project.Profile) (string, error) {
		t.Error("op dispatched after cancellation")
		return "", nil
	}
	rep, err := NewRunner(4, logger.NopLogger).Run(ctx, sliceSource(makeJobs(5)), op)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Cancelled != 5 || rep.Total != 5 {
		t.Fatalf("tally: %s", rep.Summary())
	}
	for _, o := range rep.Outcomes {
		if o.Status != Cancelled || !errors.Is(o.Err, errors.ErrCancelled) {
			t.Fatalf("row %d: %v %v", o.Row, o.Status, o.Err)
		}
	}
}

// Cancelling mid-run: everything dispatched completes, everything else
// is Cancelled, and no row is lost.
func TestRunCancelMidway(t *testing.T) {
	const n, workers = 6, 2
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan int, n)

	op := func(ctx context.Context, p *project.Profile) (string, error) {
		started <- p.Row
		<-ctx.Done()
		return "id", nil
	}

	done := make(chan *Report)
	go func() {
		rep, _ := NewRunner(workers, logger.NopLogger).Run(ctx, sliceSource(makeJobs(n)), op)
		done <- rep
	}()

	<-started
	<-started
	cancel()
	rep := <-done

	if rep.Total != n {
		t.Fatalf("total = %d, want %d", rep.Total, n)
	}
	if rep.Failed != 0 {
		t.Fatalf("unexpected failures: %s", rep.Summary())
	}
	// both in-flight rows complete; at most one more was sitting in the
	// dispatch select when the context died
	if rep.Succeeded < workers || rep.Succeeded > workers+1 {
		t.Fatalf("succeeded = %d: %s", rep.Succeeded, rep.Summary())
	}
	if rep.Cancelled != n-rep.Succeeded {
		t.Fatalf("tally mismatch: %s", rep.Summary())
	}
	for i, o := range rep.Outcomes {
		if o.Row != i {
			t.Fatalf("outcome %d has row %d", i, o.Row)
		}
	}
}

// Jobs wires the tabular reader and the projector into the engine: bad
// rows fail alone, good rows flow through.
func TestJobsEndToEnd(t *testing.T) {
	in := "id,profile.login,profile.site,country\n" +
		"u1,a@b.c,HQ,DE\n" +
		",,Berlin,DE\n" + // no identity key
		"u3,d@e.f,Annex,FR\n"
	src, err := tabular.NewCSVSource(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	op := func(ctx context.Context, p *project.Profile) (string, error) {
		if _, ok := p.Doc["country"]; ok {
			t.Error("dotless column reached the remote op")
		}
		return p.Identity, nil
	}
	rep, err := NewRunner(3, logger.NewLogfLogger(t)).Run(context.Background(),
		Jobs(src, project.ModeUpdate, nil), op)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Total != 3 || rep.Succeeded != 2 || rep.Failed != 1 {
		t.Fatalf("tally: %s", rep.Summary())
	}
	if !errors.Is(rep.Outcomes[1].Err, errors.ErrMissingIdentityKey) {
		t.Fatalf("row 1 err: %v", rep.Outcomes[1].Err)
	}
}

func TestReportSummary(t *testing.T) {
	rep := &Report{Total: 5, Succeeded: 2, Failed: 1, Cancelled: 2}
	got := rep.Summary()
	want := "5 total: 2 ok, 1 failed, 2 cancelled"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
