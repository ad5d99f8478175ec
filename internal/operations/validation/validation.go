package validation

import (
	"errors"
	"fmt"
	"time"
)

const (
	maxWorkers    = 1024
	maxIterations = 1_000_000
)

// WorkerCount validates that n is a usable number of worker threads. Every
// worker is backed by its own OS thread, so the count is capped.
func WorkerCount(n int) error {
	if n < 1 {
		return errors.New("at least one worker required")
	}

	if n > maxWorkers {
		return fmt.Errorf("max workers is %d", maxWorkers)
	}

	return nil
}

// RingPosition validates that position falls inside a ring of workers.
func RingPosition(position, workers int) error {
	if position < 0 || position >= workers {
		return fmt.Errorf("position must be in 0..%d", workers-1)
	}

	return nil
}

// RegionSize validates that size bytes hold one 8-byte slot per worker.
func RegionSize(size uint64, workers int) error {
	if size == 0 {
		return errors.New("empty region")
	}

	if size < 8*uint64(workers) {
		return fmt.Errorf("%d workers need at least %d bytes", workers, 8*workers)
	}

	return nil
}

// Delay validates a pre-scenario wait.
func Delay(d time.Duration) error {
	if d < 0 {
		return errors.New("negative delay")
	}

	return nil
}

// JoinBound validates the bound on joining workers.
func JoinBound(d time.Duration) error {
	if d <= 0 {
		return errors.New("join bound must be positive")
	}

	return nil
}

// Iterations validates a profiling iteration count.
func Iterations(n int) error {
	if n < 1 {
		return errors.New("at least one iteration required")
	}

	if n > maxIterations {
		return fmt.Errorf("max iterations is %d", maxIterations)
	}

	return nil
}

// Quantum validates a profiling sleep quantum.
func Quantum(d time.Duration) error {
	if d <= 0 {
		return errors.New("quantum must be positive")
	}

	return nil
}
