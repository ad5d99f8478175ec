package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrorWriter wraps the standard logger and implements the Writer interface.
type ErrorWriter struct {
	entry *logrus.Entry
}

// Write implements the Writer interface and writes the given bytes to the
// error log.
func (ew *ErrorWriter) Write(p []byte) (int, error) {
	ew.entry.Error(string(bytes.TrimSpace(p)))
	return len(p), nil
}

// NewErrorWriter creates an ErrorWriter over the standard logger.
func NewErrorWriter() *ErrorWriter {
	return &ErrorWriter{entry: logrus.NewEntry(logrus.StandardLogger())}
}

// Configure sets up the standard logger. Diagnostics go to logfile when one
// is given (created on demand, appended to) and stderr otherwise; stdout
// belongs to the scenarios and is never written to. If debug is true then
// the log level is set to DEBUG, else it's INFO.
func Configure(logfile string, debug bool) error {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetReportCaller(true)
	}

	if logfile == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logfile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(
		logfile,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", logfile, err)
	}

	logrus.SetOutput(f)

	return nil
}
