package platform

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// StartThread runs fn on a dedicated operating system thread. The backing
// goroutine locks itself to the thread and never unlocks, so the thread is
// not returned to the scheduler's pool and terminates together with fn: one
// kernel thread per logical worker.
func StartThread(fn func()) {
	go func() {
		runtime.LockOSThread()
		fn()
	}()
}

// ThreadID returns the kernel thread id of the calling thread. It is only
// stable on a thread obtained through StartThread or otherwise locked; ids
// are non-zero and unique among live threads.
func ThreadID() int {
	return unix.Gettid()
}
