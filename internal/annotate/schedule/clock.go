package schedule

import "time"

// Timer is a pending call created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the call from firing. It reports false when the call
	// already fired or was stopped.
	Stop() bool
}

// Clock creates timers. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock uses the time package.
type RealClock struct{}

// AfterFunc calls time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
