// Package operations glues the CLI to the scenarios: each operation
// validates its options, tags the diagnostic logger with the scenario name
// and a fresh run id, and executes the scenario against stdout.
package operations

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// scenarioLogger returns an entry tagged with the scenario name and a fresh
// run id, so that per-scenario processes sharing a log file stay
// distinguishable.
func scenarioLogger(name string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"scenario": name,
		"run_id":   uuid.New().String(),
	})
}
