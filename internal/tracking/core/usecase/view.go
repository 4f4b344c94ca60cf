package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"visitor-analytics-service/internal/tracking/core/ports"
)

const viewQueueSize = 32

var errViewQueueFull = errors.New("view task queue full, task dropped")

// View is the tracking state of one mounted page view: the session start
// marker, the current page start marker and the resolved session id.
//
// All tracking work for a view runs on a single FIFO task queue, so session
// resolution always happens before the page visits enqueued after Start, and
// nothing re-enters EnsureSession regardless of how often Start is called.
type View struct {
	id       string
	tracker  *Tracker
	identity ports.IdentityStorePort
	meta     EnsureSessionInput
	now      func() time.Time

	baseCtx     context.Context
	taskTimeout time.Duration

	mu     sync.Mutex
	tasks  chan func(context.Context)
	closed bool

	// unix nanoseconds, readable without mu
	lastActive atomic.Int64

	startOnce   sync.Once
	unloadOnce  sync.Once
	resolveOnce sync.Once
	resolved    chan struct{}
	done        chan struct{}

	idMu      sync.RWMutex
	sessionID string

	// owned by the queue goroutine
	sessionStart time.Time
	pageStart    time.Time
	hasPage      bool
}

func newView(
	ctx context.Context,
	id string,
	tracker *Tracker,
	identity ports.IdentityStorePort,
	meta EnsureSessionInput,
	taskTimeout time.Duration,
) *View {
	now := tracker.now()
	v := &View{
		id:           id,
		tracker:      tracker,
		identity:     identity,
		meta:         meta,
		now:          tracker.now,
		baseCtx:      ctx,
		taskTimeout:  taskTimeout,
		tasks:        make(chan func(context.Context), viewQueueSize),
		resolved:     make(chan struct{}),
		done:         make(chan struct{}),
		sessionStart: now,
		pageStart:    now,
	}
	v.lastActive.Store(now.UnixNano())
	go v.run()
	return v
}

func (v *View) ID() string { return v.id }

// SessionID is empty until the session has been resolved.
func (v *View) SessionID() string {
	v.idMu.RLock()
	defer v.idMu.RUnlock()
	return v.sessionID
}

// Resolved is closed once session resolution has run (or the view closed
// without ever starting).
func (v *View) Resolved() <-chan struct{} { return v.resolved }

// Done is closed after the queue drained following Unload.
func (v *View) Done() <-chan struct{} { return v.done }

func (v *View) LastActive() time.Time {
	return time.Unix(0, v.lastActive.Load())
}

// Start enqueues session resolution. Only the first call has an effect.
func (v *View) Start() {
	v.startOnce.Do(func() {
		v.enqueue(func(ctx context.Context) {
			id := v.tracker.EnsureSession(ctx, v.identity, v.meta)
			v.idMu.Lock()
			v.sessionID = id
			v.idMu.Unlock()
			v.resolveOnce.Do(func() { close(v.resolved) })
		})
	})
}

// Navigate records a visit to path. The previous page, if any, gets its
// time_on_page first. It reports false once the view is unloaded.
func (v *View) Navigate(path, title string) bool {
	return v.enqueue(func(ctx context.Context) {
		sessionID := v.SessionID()
		now := v.now()

		if v.hasPage {
			v.tracker.CloseOutPage(ctx, sessionID, now.Sub(v.pageStart))
		}

		v.hasPage = v.tracker.TrackPageVisit(ctx, sessionID, path, title)
		v.pageStart = now
	})
}

// Unload enqueues finalization and closes the queue. Later calls to any
// method are ignored.
func (v *View) Unload() {
	v.unloadOnce.Do(func() {
		v.enqueue(func(ctx context.Context) {
			now := v.now()
			v.tracker.Finalize(ctx, v.SessionID(), now.Sub(v.sessionStart), now.Sub(v.pageStart))
		})

		v.mu.Lock()
		v.closed = true
		close(v.tasks)
		v.mu.Unlock()
	})
}

// enqueue never blocks. A task that does not fit in the queue is dropped and
// counted as a tracking failure.
func (v *View) enqueue(task func(context.Context)) bool {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	v.lastActive.Store(v.now().UnixNano())

	queued := true
	select {
	case v.tasks <- task:
	default:
		queued = false
	}
	v.mu.Unlock()

	if !queued {
		v.tracker.fail("view_queue_full", v.SessionID(), errViewQueueFull)
	}
	return true
}

func (v *View) run() {
	defer close(v.done)
	defer v.resolveOnce.Do(func() { close(v.resolved) })

	for task := range v.tasks {
		ctx, cancel := v.taskContext()
		task(ctx)
		cancel()
	}
}

func (v *View) taskContext() (context.Context, context.CancelFunc) {
	if v.taskTimeout > 0 {
		return context.WithTimeout(v.baseCtx, v.taskTimeout)
	}
	return context.WithCancel(v.baseCtx)
}
