package navigation

import "time"

// Task is a scheduled callback that can be cancelled before it runs.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d. Implementations must not run f synchronously.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// TimerScheduler schedules on the runtime timer heap.
func TimerScheduler() Scheduler {
	return timerScheduler{}
}
