package board

import (
	"context"
	"sync"

	"prism-board/view"
)

// Factory builds the controller of a namespace.
type Factory func(namespace string) *Controller

// Session serializes access to one namespace's controller.
type Session struct {
	mu     sync.Mutex
	ctrl   *Controller
	loaded bool
}

// NewSession wraps ctrl. The controller is loaded on first use.
func NewSession(ctrl *Controller) *Session {
	return &Session{ctrl: ctrl}
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if err := s.ctrl.Load(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// Do runs fn with exclusive access to the controller and returns the
// document as it stands afterwards, even when fn fails. Pending alerts are
// handed out once.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, c *Controller) error) (*view.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	var err error
	if fn != nil {
		err = fn(ctx, s.ctrl)
	}
	doc := s.ctrl.Document()
	s.ctrl.doc.TakeAlerts()
	return doc, err
}

// View returns the current document.
func (s *Session) View(ctx context.Context) (*view.Document, error) {
	return s.Do(ctx, nil)
}

// Registry hands out one session per namespace.
type Registry struct {
	mu       sync.Mutex
	factory  Factory
	sessions map[string]*Session
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{factory: factory, sessions: make(map[string]*Session)}
}

// Get returns the session of namespace, creating it on first call.
func (r *Registry) Get(namespace string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[namespace]
	if !ok {
		s = NewSession(r.factory(namespace))
		r.sessions[namespace] = s
	}
	return s
}

// Len returns the number of sessions created so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
