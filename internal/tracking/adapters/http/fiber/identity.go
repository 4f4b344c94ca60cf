package fiber

import (
	"context"
	"sync"

	"visitor-analytics-service/internal/tracking/core/ports"
)

// requestIdentity stands in for the browser's local storage during one start
// request: it returns the id the client sent and keeps any id generated for it.
type requestIdentity struct {
	mu    sync.Mutex
	value string
}

var _ ports.IdentityStorePort = (*requestIdentity)(nil)

func newRequestIdentity(sessionID string) *requestIdentity {
	return &requestIdentity{value: sessionID}
}

func (r *requestIdentity) Get(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, nil
}

func (r *requestIdentity) Set(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = sessionID
	return nil
}
