// Package bulk dispatches one remote operation per input record across a
// bounded pool of workers and reports one outcome per record, in input
// order, regardless of completion order or partial failure.
package bulk

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/logger"
	"github.com/dsctl/dsctl/project"
)

// DefaultWorkers is deliberately in the low double digits; directory
// services rate-limit aggressively and a wider pool just trades 429
// churn for throughput it never gets.
const DefaultWorkers = 16

// Job is one unit of work: a projected profile, or the projection error
// that took its place. A job with a non-nil Err books a Failure outcome
// without ever being dispatched.
type Job struct {
	Row     int
	Profile *project.Profile
	Err     error
}

// JobSource supplies jobs in input order. io.EOF ends the sequence; any
// other error aborts the run (a structural problem with the input, not a
// per-row failure).
type JobSource func() (Job, error)

// Op performs the remote operation for one profile and returns the
// resulting remote identifier. Errors are opaque to the engine; they are
// recorded, never interpreted.
type Op func(ctx context.Context, p *project.Profile) (string, error)

// Status classifies an outcome.
type Status int

const (
	Success Status = iota
	Failure
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Outcome is the terminal state of one input row. Exactly one Outcome
// exists per row; it is immutable once recorded. Doc is carried along so
// failure reports are self-contained.
type Outcome struct {
	Row    int
	Status Status
	ID     string
	Doc    map[string]interface{}
	Err    error
}

// Report is the aggregate of a run. Outcomes are in input-row order.
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Cancelled int
	Outcomes  []Outcome
}

// Summary is the one-line tally. Emitting it is part of the engine's
// contract; a run never completes silently.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d total: %d ok, %d failed, %d cancelled",
		r.Total, r.Succeeded, r.Failed, r.Cancelled)
}

// Runner executes bulk operations.
type Runner struct {
	Workers int
	Log     logger.Logger
}

func NewRunner(workers int, log logger.Logger) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = logger.NopLogger
	}
	return &Runner{Workers: workers, Log: log}
}

// Run drains src, dispatching op across the pool. Rows are independent:
// no execution order is assumed between workers, and one row's failure
// never touches its siblings. When ctx is cancelled the dispatcher stops
// handing out work; in-flight calls finish, and every remaining row is
// booked Cancelled. The returned error reflects structural problems with
// the source only, never per-row failures.
func (r *Runner) Run(ctx context.Context, src JobSource, op Op) (*Report, error) {
	jobs := make(chan Job)
	var (
		mu       sync.Mutex
		outcomes []Outcome
	)
	record := func(o Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}

	var eg errgroup.Group
	for i := 0; i < r.Workers; i++ {
		eg.Go(func() error {
			for job := range jobs {
				record(r.execute(ctx, job, op))
			}
			return nil
		})
	}

	// Dispatch loop. Runs on the caller's goroutine; stops handing out
	// work the moment ctx is done and drains the rest as Cancelled.
	var srcErr error
	cancelled := false
	for {
		job, err := src()
		if err != nil {
			if err != io.EOF {
				srcErr = err
			}
			break
		}
		// Cancellation is observed between one dispatch and the next,
		// checked ahead of the dispatch select so an already-cancelled
		// context never hands out work.
		if !cancelled {
			select {
			case <-ctx.Done():
				cancelled = true
			default:
			}
		}
		if cancelled {
			record(Outcome{Row: job.Row, Status: Cancelled, Doc: jobDoc(job),
				Err: errors.New(errors.ErrCancelled, "cancelled before dispatch")})
			continue
		}
		if job.Err != nil {
			r.Log.Debugf("row %d: %v", job.Row, job.Err)
			record(Outcome{Row: job.Row, Status: Failure, Doc: jobDoc(job), Err: job.Err})
			continue
		}
		select {
		case <-ctx.Done():
			cancelled = true
			record(Outcome{Row: job.Row, Status: Cancelled, Doc: jobDoc(job),
				Err: errors.New(errors.ErrCancelled, "cancelled before dispatch")})
		case jobs <- job:
		}
	}
	close(jobs)
	_ = eg.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Row < outcomes[j].Row })

	rep := &Report{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case Success:
			rep.Succeeded++
		case Failure:
			rep.Failed++
		case Cancelled:
			rep.Cancelled++
		}
	}
	r.Log.Printf("bulk run: %s", rep.Summary())
	return rep, srcErr
}

// execute runs op for one dispatched job. The worker owns this row's
// outcome slot exclusively; nothing else ever writes it.
func (r *Runner) execute(ctx context.Context, job Job, op Op) Outcome {
	id, err := op(ctx, job.Profile)
	if err != nil {
		r.Log.Debugf("row %d: %v", job.Row, err)
		return Outcome{
			Row:    job.Row,
			Status: Failure,
			Doc:    job.Profile.Doc,
			Err:    errors.Wrapf(errors.New(errors.ErrRemoteOperationFailed, err.Error()), "row %d", job.Row),
		}
	}
	return Outcome{Row: job.Row, Status: Success, ID: id, Doc: job.Profile.Doc}
}

func jobDoc(job Job) map[string]interface{} {
	if job.Profile != nil {
		return job.Profile.Doc
	}
	return nil
}
