// Package common provides small, dependency-free utilities shared by every
// other package: logging, filesystem helpers, the error taxonomy, and the
// version string.
package common

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"
)

// Logger is a minimal leveled logger: a verbosity threshold for Info, errors
// always logged, optionally duplicated to stderr, backed by a rotatable file.
type Logger struct {
	impl              *log.Logger
	fileName          string
	verbosity         int
	duplicateToStderr bool
}

// MakeLogger opens logFile (or writes to stderr if logFile is "" or "stderr")
// and returns a ready Logger. verbosity must be in [-1, 2]: -1 disables Info
// entirely, 2 is the most verbose.
func MakeLogger(logFile string, verbosity int, duplicateToStderr bool) (*Logger, error) {
	var impl *log.Logger

	if logFile != "" && logFile != "stderr" {
		out, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, err
		}
		impl = log.New(out, "", 0)
	} else {
		impl = log.New(os.Stderr, "", 0)
	}

	if verbosity < -1 || verbosity > 2 {
		return nil, errors.New("logger: verbosity must be within [-1, 2]")
	}

	return &Logger{
		impl:              impl,
		fileName:          logFile,
		verbosity:         verbosity,
		duplicateToStderr: duplicateToStderr,
	}, nil
}

func formatLine(prefix string, v ...interface{}) string {
	return fmt.Sprintf("%s %s %s", time.Now().Format("2006-01-02 15:04:05"), prefix, fmt.Sprintln(v...))
}

// Info logs a line if the logger's verbosity is at least verbosity.
func (l *Logger) Info(verbosity int, v ...interface{}) {
	if l == nil || l.impl == nil {
		return
	}
	if l.verbosity >= verbosity {
		_ = l.impl.Output(0, formatLine("INFO", v...))
	}
}

// Error always logs, and additionally writes to stderr when duplicateToStderr is set.
func (l *Logger) Error(v ...interface{}) {
	if l == nil || l.impl == nil {
		return
	}
	_ = l.impl.Output(0, formatLine("ERROR", v...))
	if l.duplicateToStderr {
		_, _ = fmt.Fprint(os.Stderr, formatLine("[easy-make]", v...))
	}
}

// RotateLogFile reopens the backing log file, e.g. after an external logrotate.
func (l *Logger) RotateLogFile() error {
	if l.fileName == "" || l.fileName == "stderr" {
		return nil
	}
	out, err := os.OpenFile(l.fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	l.impl = log.New(out, "", 0)
	return nil
}
