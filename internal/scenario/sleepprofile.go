package scenario

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tracebait/tracebait/internal/platform"
)

// SleepProfile measures the cost of minimal-duration sleeps: a fixed count
// of quantum-length sleeps back to back on one dedicated thread, timed with
// a single pair of monotonic clock reads spanning the whole loop. A tracer
// that inflates syscall latency shows up directly in the mean.
type SleepProfile struct {
	Iterations int
	Quantum    time.Duration
	Out        io.Writer
}

// SleepProfileResult carries the measured span and the mean per-iteration
// latency.
type SleepProfileResult struct {
	Elapsed time.Duration
	Mean    time.Duration
}

// Run executes the measurement. One sleep and one clock read are discarded
// up front so that cold-start cost stays out of the measured span.
func (p *SleepProfile) Run() (*SleepProfileResult, error) {
	if p.Iterations < 1 {
		return nil, errors.New("at least one iteration required")
	}

	if p.Quantum <= 0 {
		return nil, errors.New("quantum must be positive")
	}

	out := newSyncWriter(p.Out)

	type outcome struct {
		result *SleepProfileResult
		err    error
	}

	outcomes := make(chan outcome, 1)

	platform.StartThread(func() {
		result, err := p.profile(out)
		outcomes <- outcome{result: result, err: err}
	})

	o := <-outcomes

	return o.result, o.err
}

func (p *SleepProfile) profile(out io.Writer) (*SleepProfileResult, error) {
	if err := platform.RetrySleep(p.Quantum); err != nil {
		return nil, fmt.Errorf("warm-up sleep: %w", err)
	}

	if _, err := platform.MonotonicNow(); err != nil {
		return nil, fmt.Errorf("warm-up clock read: %w", err)
	}

	begin, err := platform.MonotonicNow()
	if err != nil {
		return nil, fmt.Errorf("begin clock read: %w", err)
	}

	for i := 0; i < p.Iterations; i++ {
		fmt.Fprintf(out, "nanosleep, iteration: %d\n", i)

		if err := platform.RetrySleep(p.Quantum); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	end, err := platform.MonotonicNow()
	if err != nil {
		return nil, fmt.Errorf("end clock read: %w", err)
	}

	elapsed := end - begin
	micros := elapsed.Microseconds()
	mean := float64(micros) / float64(p.Iterations)

	fmt.Fprintf(out, "time elapsed %dus for %d iterations, mean: %.3fus\n", micros, p.Iterations, mean)

	return &SleepProfileResult{
		Elapsed: elapsed,
		Mean:    elapsed / time.Duration(p.Iterations),
	}, nil
}
