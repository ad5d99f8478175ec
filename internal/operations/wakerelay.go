package operations

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tracebait/tracebait/internal/operations/validation"
	"github.com/tracebait/tracebait/internal/scenario"
)

type WakeRelayOpts struct {
	Threads     int
	Kicker      int
	Delay       time.Duration
	JoinTimeout time.Duration
}

// WakeRelay runs the condvar-relay scenario.
func WakeRelay(opts *WakeRelayOpts) error {
	if err := validation.WorkerCount(opts.Threads); err != nil {
		return fmt.Errorf("validate workers: %w", err)
	}

	if err := validation.RingPosition(opts.Kicker, opts.Threads); err != nil {
		return fmt.Errorf("validate kicker: %w", err)
	}

	if err := validation.Delay(opts.Delay); err != nil {
		return fmt.Errorf("validate delay: %w", err)
	}

	if err := validation.JoinBound(opts.JoinTimeout); err != nil {
		return fmt.Errorf("validate join timeout: %w", err)
	}

	log := scenarioLogger("wakerelay")

	w := &scenario.WakeRelay{
		Threads:     opts.Threads,
		Kicker:      opts.Kicker,
		Delay:       opts.Delay,
		JoinTimeout: opts.JoinTimeout,
		Log:         log,
	}

	log.WithFields(logrus.Fields{
		"threads": opts.Threads,
		"kicker":  opts.Kicker,
	}).Debug("starting scenario")

	result, err := w.Run()
	if err != nil {
		return fmt.Errorf("run wakerelay scenario: %w", err)
	}

	if len(result.Lost) > 0 {
		log.WithField("parked", result.Lost).Info("relay ended with a lost wakeup")
	}

	log.WithField("completed", len(result.Completed)).Debug("scenario complete")

	return nil
}
