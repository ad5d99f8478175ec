// Package scenario implements the conformance workloads. Each scenario is a
// self-contained concurrent program with a known set of observable facts on
// stdout; a syscall-interposition layer that fails to reproduce those facts
// has diverged.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrJoinTimeout is returned when workers are still unaccounted for after a
// scenario's join bound expires.
var ErrJoinTimeout = errors.New("join timed out")

// entry returns log, or an entry on the standard logger when log is nil.
func entry(log *logrus.Entry) *logrus.Entry {
	if log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return log
}

// syncWriter serialises writes from concurrent workers onto one stream.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	if w == nil {
		w = os.Stdout
	}

	return &syncWriter{w: w}
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	return sw.w.Write(p)
}

// workerExit is one worker's terminal report.
type workerExit struct {
	index int
	err   error
}

// joinWorkers receives up to pending worker exits within the given bound.
// On expiry it returns the exits that did land together with ErrJoinTimeout.
func joinWorkers(done <-chan workerExit, pending int, bound time.Duration) ([]workerExit, error) {
	timer := time.NewTimer(bound)
	defer timer.Stop()

	exits := make([]workerExit, 0, pending)

	for len(exits) < pending {
		select {
		case e := <-done:
			exits = append(exits, e)
		case <-timer.C:
			return exits, fmt.Errorf(
				"%d of %d workers unaccounted for after %v: %w",
				pending-len(exits), pending, bound, ErrJoinTimeout,
			)
		}
	}

	return exits, nil
}
