// Package remote exposes session controls as named request handlers, the way host vendor request APIs
// (obs-websocket style) dispatch them.
package remote

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUnknownRequest is returned when calling a request nobody registered.
	ErrUnknownRequest = errors.New("unknown request")
	// ErrDuplicateRequest is returned when registering a request name twice.
	ErrDuplicateRequest = errors.New("request already registered")
	// ErrInvalidRequest is returned when a request carries a field of the wrong type.
	ErrInvalidRequest = errors.New("invalid request")
)

// Handler answers one request. Request and response are flat string-keyed maps.
type Handler func(ctx context.Context, request map[string]any) (map[string]any, error)

// Registrar is the request dispatch mechanism of a host.
type Registrar interface {
	RegisterRequest(name string, handler Handler) error
	UnregisterRequest(name string)
}

// Registry is an in-process Registrar.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// RegisterRequest implements Registrar.
func (r *Registry) RegisterRequest(name string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRequest, name)
	}

	r.handlers[name] = handler

	return nil
}

// UnregisterRequest implements Registrar.
func (r *Registry) UnregisterRequest(name string) {
	r.mu.Lock()
	delete(r.handlers, name)
	r.mu.Unlock()
}

// Names returns the registered request names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Call dispatches a request. A nil request is treated as empty.
func (r *Registry) Call(ctx context.Context, name string, request map[string]any) (map[string]any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, name)
	}

	if request == nil {
		request = map[string]any{}
	}

	return handler(ctx, request)
}
