// Package gallog holds the minimal ambient logging used across gallade:
// a pair of standard loggers plus a verbosity flag, in the same spirit as
// the teacher's cmd/dep/loggers.go.
package gallog

import (
	"fmt"
	"log"
	"os"
)

// Loggers holds standard loggers and a verbosity flag.
type Loggers struct {
	Out, Err *log.Logger
	// Whether verbose logging is enabled.
	Verbose bool
}

// Debugf writes a formatted message to Out only when Verbose is set.
func (l *Loggers) Debugf(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	l.Out.Output(2, fmt.Sprintf(format, args...))
}

// Errf writes a formatted message to Err, unconditionally.
func (l *Loggers) Errf(format string, args ...interface{}) {
	l.Err.Output(2, fmt.Sprintf(format, args...))
}

// Default builds the Loggers used by cmd/gallade: messages to os.Stdout and
// os.Stderr without timestamp prefixes, matching the CLI's own output
// conventions.
func Default(verbose bool) *Loggers {
	return &Loggers{
		Out:     log.New(os.Stdout, "", 0),
		Err:     log.New(os.Stderr, "", 0),
		Verbose: verbose,
	}
}
