package dsctl

import (
	"io"

	"github.com/dsctl/dsctl/logger"
)

// Version is overridden at build time via -ldflags.
var Version = "v0.0.0-devel"

// CmdIO holds standard unix inputs and outputs.
type CmdIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	logger logger.Logger
}

// NewCmdIO returns a new instance of CmdIO with inputs and outputs set to the
// arguments.
func NewCmdIO(stdin io.Reader, stdout, stderr io.Writer) *CmdIO {
	return &CmdIO{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		logger: logger.NewStandardLogger(stderr),
	}
}

func (c *CmdIO) Logger() logger.Logger {
	return c.logger
}

// SetLogger replaces the logger, mostly so tests can capture output.
func (c *CmdIO) SetLogger(log logger.Logger) {
	c.logger = log
}
