package usecase_test

import (
	"sort"
	"sync"
	"time"

	"visitor-analytics-service/internal/reveal/core/ports"
)

// ------------------------------------------------------------
// OBSERVERS
// ------------------------------------------------------------

type fakeObserver struct {
	threshold float64
	callback  func([]ports.Entry)

	mu           sync.Mutex
	observed     map[string]bool
	disconnected bool
}

func (o *fakeObserver) Observe(target string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed[target] = true
}

func (o *fakeObserver) Unobserve(target string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.observed, target)
}

func (o *fakeObserver) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.disconnected = true
	o.observed = map[string]bool{}
}

func (o *fakeObserver) isObserving(target string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.observed[target]
}

// emit delivers only entries whose target is still observed, like the
// browser does.
func (o *fakeObserver) emit(entries ...ports.Entry) {
	o.mu.Lock()
	var live []ports.Entry
	for _, e := range entries {
		if o.observed[e.Target] {
			live = append(live, e)
		}
	}
	o.mu.Unlock()
	if len(live) > 0 {
		o.callback(live)
	}
}

type fakeObserverFactory struct {
	observers []*fakeObserver
}

func (f *fakeObserverFactory) NewObserver(threshold float64, callback func([]ports.Entry)) ports.Observer {
	o := &fakeObserver{threshold: threshold, callback: callback, observed: map[string]bool{}}
	f.observers = append(f.observers, o)
	return o
}

// observerOf returns the observer watching target.
func (f *fakeObserverFactory) observerOf(target string) *fakeObserver {
	for _, o := range f.observers {
		if o.isObserving(target) {
			return o
		}
	}
	return nil
}

// ------------------------------------------------------------
// CLOCK
// ------------------------------------------------------------

type pendingTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (p *pendingTimer) Stop() bool {
	if p.fired || p.stopped {
		return false
	}
	p.stopped = true
	return true
}

// fakeClock runs callbacks only when advanced.
type fakeClock struct {
	now    time.Duration
	timers []*pendingTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) ports.Stopper {
	t := &pendingTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	due := make([]*pendingTimer, 0)
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.at <= c.now {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fired = true
		t.f()
	}
}
