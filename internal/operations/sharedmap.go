package operations

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tracebait/tracebait/internal/operations/validation"
	"github.com/tracebait/tracebait/internal/scenario"
)

type SharedMapOpts struct {
	Threads     int
	Addr        uint64
	Size        uint64
	Idle        time.Duration
	JoinTimeout time.Duration
}

// SharedMap runs the fixed-address mapping scenario.
func SharedMap(opts *SharedMapOpts) error {
	if err := validation.WorkerCount(opts.Threads); err != nil {
		return fmt.Errorf("validate workers: %w", err)
	}

	if err := validation.RegionSize(opts.Size, opts.Threads); err != nil {
		return fmt.Errorf("validate region size: %w", err)
	}

	if err := validation.Delay(opts.Idle); err != nil {
		return fmt.Errorf("validate idle: %w", err)
	}

	if err := validation.JoinBound(opts.JoinTimeout); err != nil {
		return fmt.Errorf("validate join timeout: %w", err)
	}

	log := scenarioLogger("sharedmap")

	s := &scenario.SharedMap{
		Threads:     opts.Threads,
		Addr:        uintptr(opts.Addr),
		Size:        uintptr(opts.Size),
		Idle:        opts.Idle,
		JoinTimeout: opts.JoinTimeout,
		Log:         log,
	}

	log.WithFields(logrus.Fields{
		"threads": opts.Threads,
		"addr":    fmt.Sprintf("%#x", opts.Addr),
	}).Debug("starting scenario")

	result, err := s.Run()
	if err != nil {
		return fmt.Errorf("run sharedmap scenario: %w", err)
	}

	log.WithField("slots", len(result.Slots)).Debug("scenario complete")

	return nil
}
