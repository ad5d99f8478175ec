package platform

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// RetrySleep blocks the calling thread for at least d of CLOCK_MONOTONIC
// time. An interrupted sleep is resumed with the remaining time reported by
// the kernel until the full duration has elapsed; any error other than EINTR
// is returned to the caller.
func RetrySleep(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("retry sleep: negative duration %v", d)
	}

	req := unix.NsecToTimespec(d.Nanoseconds())

	for {
		var rem unix.Timespec

		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, 0, &req, &rem)
		if err == nil {
			return nil
		}

		if !errors.Is(err, unix.EINTR) {
			return fmt.Errorf("clock_nanosleep: %w", err)
		}

		req = rem
	}
}
