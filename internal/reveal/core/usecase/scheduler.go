package usecase

import (
	"sort"
	"sync"
	"time"

	"visitor-analytics-service/internal/reveal/core/domain"
	"visitor-analytics-service/internal/reveal/core/ports"

	"github.com/sirupsen/logrus"
)

// Scheduler attaches visibility observers to a document and plays each
// eligible item once, staggered within its group.
type Scheduler struct {
	observers      ports.ObserverFactory
	clock          ports.Clock
	defaultStagger time.Duration
	log            logrus.FieldLogger
}

// NewScheduler accepts a nil observer factory, in which case Init is a no-op.
func NewScheduler(observers ports.ObserverFactory, clock ports.Clock, defaultStagger time.Duration, log logrus.FieldLogger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		observers:      observers,
		clock:          clock,
		defaultStagger: defaultStagger,
		log:            log,
	}
}

// run is the state of one Init call.
type run struct {
	s *Scheduler

	mu        sync.Mutex
	stopped   bool
	observers []ports.Observer
	timers    []ports.Stopper
	fired     map[string]bool
}

// Init observes every group and loose item of doc and returns the teardown
// that disconnects all observers and stops pending timers.
func (s *Scheduler) Init(doc *domain.Document) (teardown func()) {
	if s.observers == nil || doc == nil {
		return func() {}
	}

	r := &run{s: s, fired: make(map[string]bool)}

	for _, g := range doc.Groups {
		g := g
		var obs ports.Observer
		obs = s.observers.NewObserver(domain.Threshold, func(entries []ports.Entry) {
			for _, e := range entries {
				if !e.Intersecting || e.Target != g.ID {
					continue
				}
				r.fireGroup(g)
				obs.Unobserve(g.ID)
			}
		})
		r.track(obs)
		obs.Observe(g.ID)
	}

	loose := make(map[string]*domain.Item)
	for _, it := range doc.Loose {
		if it.HasRevealClass() && !doc.Contains(it) {
			loose[it.ID] = it
		}
	}
	if len(loose) > 0 {
		var obs ports.Observer
		obs = s.observers.NewObserver(domain.Threshold, func(entries []ports.Entry) {
			r.fireLoose(obs, loose, entries)
		})
		r.track(obs)
		for id := range loose {
			obs.Observe(id)
		}
	}

	return r.teardown
}

func (r *run) track(obs ports.Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, obs)
}

func (r *run) fireGroup(g *domain.Group) {
	r.mu.Lock()
	if r.stopped || r.fired[g.ID] {
		r.mu.Unlock()
		return
	}
	r.fired[g.ID] = true
	r.mu.Unlock()

	plan := PlanGroup(g, r.s.defaultStagger)
	byID := make(map[string]*domain.Item, len(g.Items))
	for _, it := range g.Items {
		byID[it.ID] = it
	}
	for _, d := range plan.Items {
		r.schedule(byID[d.ItemID], d.Delay)
	}
}

// fireLoose orders the intersecting pending items of one callback batch by
// vertical position and staggers them by the default interval.
func (r *run) fireLoose(obs ports.Observer, loose map[string]*domain.Item, entries []ports.Entry) {
	visible := make([]ports.Entry, 0, len(entries))
	for _, e := range entries {
		it, ok := loose[e.Target]
		if !ok || !e.Intersecting || it.State() != domain.StatePending {
			continue
		}
		visible = append(visible, e)
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Top < visible[j].Top })

	for k, e := range visible {
		r.schedule(loose[e.Target], time.Duration(k)*r.s.defaultStagger)
		obs.Unobserve(e.Target)
	}
}

func (r *run) schedule(it *domain.Item, delay time.Duration) {
	if it == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || !it.Schedule(delay) {
		return
	}
	r.timers = append(r.timers, r.s.clock.AfterFunc(delay, func() {
		if it.Play() {
			r.s.log.WithFields(logrus.Fields{"item": it.ID, "delay": delay}).Trace("reveal played")
		}
	}))
}

func (r *run) teardown() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	observers, timers := r.observers, r.timers
	r.observers, r.timers = nil, nil
	r.mu.Unlock()

	for _, o := range observers {
		o.Disconnect()
	}
	for _, t := range timers {
		t.Stop()
	}
}
