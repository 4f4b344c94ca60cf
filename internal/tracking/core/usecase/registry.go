package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"visitor-analytics-service/internal/tracking/core/ports"

	"github.com/google/uuid"
)

// ViewRegistry keeps the live views of the process, keyed by view id.
type ViewRegistry struct {
	tracker     *Tracker
	baseCtx     context.Context
	taskTimeout time.Duration

	mu    sync.Mutex
	views map[string]*View
}

func NewViewRegistry(ctx context.Context, tracker *Tracker, taskTimeout time.Duration) *ViewRegistry {
	return &ViewRegistry{
		tracker:     tracker,
		baseCtx:     context.WithoutCancel(ctx),
		taskTimeout: taskTimeout,
		views:       make(map[string]*View),
	}
}

// Open creates and registers a started view.
func (r *ViewRegistry) Open(identity ports.IdentityStorePort, meta EnsureSessionInput) *View {
	v := newView(r.baseCtx, uuid.NewString(), r.tracker, identity, meta, r.taskTimeout)

	r.mu.Lock()
	r.views[v.ID()] = v
	r.mu.Unlock()

	v.Start()
	return v
}

// OpenedView identifies a started view. SessionID is empty when resolution
// did not finish before the caller gave up waiting.
type OpenedView struct {
	ViewID    string
	SessionID string
}

// Begin opens a view, optionally records its first page, and waits for the
// session to resolve or ctx to expire.
func (r *ViewRegistry) Begin(ctx context.Context, identity ports.IdentityStorePort, meta EnsureSessionInput, firstPage, firstTitle string) OpenedView {
	v := r.Open(identity, meta)
	if strings.TrimSpace(firstPage) != "" {
		v.Navigate(firstPage, firstTitle)
	}

	select {
	case <-v.Resolved():
	case <-ctx.Done():
	}
	return OpenedView{ViewID: v.ID(), SessionID: v.SessionID()}
}

// Navigate queues a page visit on the view.
func (r *ViewRegistry) Navigate(id, path, title string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPageVisit
	}
	v, err := r.Get(id)
	if err != nil {
		return err
	}
	if !v.Navigate(path, title) {
		return ErrViewNotFound
	}
	return nil
}

// Unload finalizes the view and forgets it.
func (r *ViewRegistry) Unload(id string) error {
	_, err := r.Close(id)
	return err
}

func (r *ViewRegistry) Get(id string) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

// Close unloads the view and forgets it.
func (r *ViewRegistry) Close(id string) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return nil, ErrViewNotFound
	}
	v.Unload()
	return v, nil
}

// SweepIdle unloads every view whose last activity is older than maxIdle and
// returns how many were evicted.
func (r *ViewRegistry) SweepIdle(maxIdle time.Duration) int {
	cutoff := r.tracker.now().Add(-maxIdle)

	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.Unlock()

	var stale []*View
	for _, v := range views {
		if !v.LastActive().Before(cutoff) {
			continue
		}
		r.mu.Lock()
		_, live := r.views[v.ID()]
		delete(r.views, v.ID())
		r.mu.Unlock()
		if live {
			stale = append(stale, v)
		}
	}

	for _, v := range stale {
		v.Unload()
	}
	return len(stale)
}

// CloseAll unloads every live view and waits for their queues to drain or
// ctx to expire.
func (r *ViewRegistry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for id, v := range r.views {
		views = append(views, v)
		delete(r.views, id)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.Unload()
	}
	for _, v := range views {
		select {
		case <-v.Done():
		case <-ctx.Done():
			return
		}
	}
}

func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
