package ports

import "time"

// Entry is one visibility change reported to an observer callback.
type Entry struct {
	Target       string // group or item id
	Intersecting bool
	Top          float64 // vertical position at intersection time
}

type Observer interface {
	Observe(target string)
	Unobserve(target string)
	Disconnect()
}

// ObserverFactory creates visibility observers. A nil factory means the
// runtime has no visibility API.
type ObserverFactory interface {
	NewObserver(threshold float64, callback func([]Entry)) Observer
}

type Stopper interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Stopper
}
