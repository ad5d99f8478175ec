package scenario

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tracebait/tracebait/internal/platform"
)

// SharedMap is the fixed-address mapping scenario: worker 0 maps one
// anonymous region at a caller-chosen address, then N workers on dedicated
// threads write their kernel thread ids into disjoint slots of it. Slot
// writes take no lock; the indices are disjoint and the absence of locking
// is part of the workload.
type SharedMap struct {
	Threads     int
	Addr        uintptr
	Size        uintptr
	Idle        time.Duration
	JoinTimeout time.Duration
	Out         io.Writer
	Log         *logrus.Entry
}

// SharedMapResult records where the region landed and the thread ids the
// workers left in it, slot k belonging to worker k.
type SharedMapResult struct {
	Addr  uintptr
	Slots []uint64
}

// Run executes the scenario: one non-threaded idle sleep on the driver,
// worker 0 started and joined on its own to establish the mapping, workers
// 1..N-1 concurrently against it, a bounded join, one stdout line per slot
// in index order, then release of the region.
func (s *SharedMap) Run() (*SharedMapResult, error) {
	if s.Threads < 1 {
		return nil, errors.New("at least one worker required")
	}

	if uintptr(s.Threads)*8 > s.Size {
		return nil, fmt.Errorf("region of %#x bytes cannot hold %d slots", s.Size, s.Threads)
	}

	if s.JoinTimeout <= 0 {
		return nil, errors.New("join bound must be positive")
	}

	out := newSyncWriter(s.Out)
	log := entry(s.Log)

	if err := platform.RetrySleep(s.Idle); err != nil {
		return nil, fmt.Errorf("driver idle: %w", err)
	}

	var region *platform.Region

	done := make(chan workerExit, s.Threads)

	worker := func(k int) {
		tid := platform.ThreadID()

		fmt.Fprintf(out, "thread %d enter.\n", k)

		if k == 0 {
			mapped, err := platform.MapRegionAt(s.Addr, s.Size)
			if err != nil {
				done <- workerExit{index: k, err: err}

				return
			}

			region = mapped
		}

		region.Slots()[k] = uint64(tid)

		if err := platform.RetrySleep(s.Idle); err != nil {
			done <- workerExit{index: k, err: fmt.Errorf("idle: %w", err)}

			return
		}

		fmt.Fprintf(out, "thread %d exit.\n", k)

		done <- workerExit{index: k}
	}

	platform.StartThread(func() { worker(0) })

	first, err := joinWorkers(done, 1, s.JoinTimeout)
	if err != nil {
		return nil, fmt.Errorf("join worker 0: %w", err)
	}

	if first[0].err != nil {
		return nil, fmt.Errorf("worker 0: %w", first[0].err)
	}

	log.WithFields(logrus.Fields{
		"addr":  fmt.Sprintf("%#x", region.Addr()),
		"slots": s.Threads,
	}).Debug("region established")

	for k := 1; k < s.Threads; k++ {
		k := k
		platform.StartThread(func() { worker(k) })
	}

	rest, err := joinWorkers(done, s.Threads-1, s.JoinTimeout)
	if err != nil {
		// Unjoined workers may still write to the region; leak the mapping
		// rather than unmap it under them.
		return nil, fmt.Errorf("join workers: %w", err)
	}

	for _, e := range rest {
		if e.err != nil {
			if err := region.Close(); err != nil {
				log.WithError(err).Warn("failed to release region")
			}

			return nil, fmt.Errorf("worker %d: %w", e.index, e.err)
		}
	}

	result := &SharedMapResult{
		Addr:  region.Addr(),
		Slots: make([]uint64, s.Threads),
	}
	copy(result.Slots, region.Slots())

	for _, v := range result.Slots {
		fmt.Fprintf(out, "threads data: %x\n", v)
	}

	if err := region.Close(); err != nil {
		return nil, fmt.Errorf("release region: %w", err)
	}

	return result, nil
}
