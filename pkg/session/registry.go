package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks in-flight session builds so a caller can cancel one by
// id. A request canceled mid-build leaves the store unchanged except for
// any committed auto-introduction.
type Registry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{cancels: make(map[string]context.CancelFunc)}
}

// Begin registers a new build, deriving a cancelable context from parent,
// and returns the build id plus the derived context. Callers must defer
// Done(id) immediately after calling Begin.
func (r *Registry) Begin(parent context.Context) (string, context.Context) {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(parent)
	r.mu.Lock()
	r.cancels[id] = cancel
	r.mu.Unlock()
	return id, ctx
}

// Cancel cancels an in-flight build by id. Returns false if no build with
// that id is registered (already finished, or an unknown id).
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// Done unregisters a build, whether it finished, failed, or was canceled.
func (r *Registry) Done(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, id)
}
