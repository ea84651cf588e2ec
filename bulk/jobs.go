package bulk

import (
	"github.com/dsctl/dsctl/project"
	"github.com/dsctl/dsctl/tabular"
)

// Jobs adapts a tabular source into a JobSource by projecting each row
// in mode with the given dotted-key defaults. Projection failures ride
// along inside the job so they isolate to that row's outcome instead of
// ending the run.
func Jobs(src tabular.Source, mode project.Mode, defaults map[string]string) JobSource {
	return func() (Job, error) {
		row, err := src.Next()
		if err != nil {
			return Job{}, err
		}
		p, perr := project.Project(row, mode, defaults)
		return Job{Row: row.Index, Profile: p, Err: perr}, nil
	}
}
