package ptr

import "time"

// Scheduler runs deferred callbacks on the same queue that delivers touch
// events. Implementations must never run a callback whose Timer was
// stopped.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or was stopped before.
	Stop() bool
}
