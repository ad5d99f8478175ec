package operations

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tracebait/tracebait/internal/operations/validation"
	"github.com/tracebait/tracebait/internal/scenario"
)

type SleepProfileOpts struct {
	Iterations int
	Quantum    time.Duration
}

// SleepProfile runs the sleep-latency measurement scenario.
func SleepProfile(opts *SleepProfileOpts) error {
	if err := validation.Iterations(opts.Iterations); err != nil {
		return fmt.Errorf("validate iterations: %w", err)
	}

	if err := validation.Quantum(opts.Quantum); err != nil {
		return fmt.Errorf("validate quantum: %w", err)
	}

	log := scenarioLogger("sleepprofile")

	p := &scenario.SleepProfile{
		Iterations: opts.Iterations,
		Quantum:    opts.Quantum,
	}

	log.WithFields(logrus.Fields{
		"iterations": opts.Iterations,
		"quantum":    opts.Quantum.String(),
	}).Debug("starting scenario")

	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("run sleepprofile scenario: %w", err)
	}

	log.WithFields(logrus.Fields{
		"elapsed": result.Elapsed.String(),
		"mean":    result.Mean.String(),
	}).Debug("scenario complete")

	return nil
}
