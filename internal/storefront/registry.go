package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStaleView    = errors.New("view is no longer current")
	ErrViewNotFound = errors.New("view not found")
)

type viewEntry[T any] struct {
	id      uuid.UUID
	view    T
	loaded  bool
	touched time.Time
	cancel  context.CancelFunc
}

// Registry holds the single current view instance of every viewer.
//
// Opening a view (Begin) supersedes the viewer's previous instance and
// cancels its in-flight load. A load may only store its result (Commit)
// while its instance is still current, so a late response can never
// overwrite the state of the view the viewer has moved on to.
type Registry[T any] struct {
	mu      sync.Mutex
	current map[string]*viewEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry creates a registry whose idle views expire after ttl
func NewRegistry[T any](ttl time.Duration) *Registry[T] {
	return &Registry[T]{
		current: make(map[string]*viewEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Begin starts a new view instance for viewer. The returned context is
// cancelled as soon as the instance is superseded or committed.
func (r *Registry[T]) Begin(ctx context.Context, viewer string) (context.Context, uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()

	if prev, ok := r.current[viewer]; ok && prev.cancel != nil {
		prev.cancel()
	}

	loadCtx, cancel := context.WithCancel(ctx)
	id := uuid.New()
	r.current[viewer] = &viewEntry[T]{
		id:      id,
		touched: r.now(),
		cancel:  cancel,
	}
	return loadCtx, id
}

// Commit stores the loaded view. It fails with ErrStaleView when id is no
// longer the viewer's current instance.
func (r *Registry[T]) Commit(viewer string, id uuid.UUID, view T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.current[viewer]
	if !ok || e.id != id {
		return ErrStaleView
	}

	e.view = view
	e.loaded = true
	e.touched = r.now()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	return nil
}

// Discard drops an instance whose load was abandoned, if it is still current
func (r *Registry[T]) Discard(viewer string, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.current[viewer]
	if !ok || e.id != id {
		return
	}
	if e.cancel != nil {
		e.cancel()
	}
	delete(r.current, viewer)
}

// Update runs fn on the viewer's current view while holding the registry
// lock; views need no locking of their own.
func (r *Registry[T]) Update(viewer string, id uuid.UUID, fn func(T) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.current[viewer]
	if !ok || e.id != id || !e.loaded {
		return ErrViewNotFound
	}
	e.touched = r.now()
	return fn(e.view)
}

// Len returns the number of tracked instances
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.current)
}

// sweep drops loaded views idle for longer than the ttl. Caller holds mu.
func (r *Registry[T]) sweep() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for viewer, e := range r.current {
		if e.loaded && e.touched.Before(cutoff) {
			delete(r.current, viewer)
		}
	}
}
