package interfaces

import "time"

// Scheduler arms delayed callbacks. The chat engine never sleeps; every
// delay goes through a Scheduler so tests can run on virtual time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop prevents the callback from firing. It reports false when the
	// callback already ran or the timer was stopped.
	Stop() bool
}
