package handlers

import (
	"github.com/arthur-debert/dotsync/pkg/errors"
)

// Registry holds directive handlers in registration order
type Registry struct {
	handlers []Directive
}

// NewRegistry creates a registry holding the given handlers
func NewRegistry(handlers ...Directive) *Registry {
	r := &Registry{}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

// Register adds a handler. Later handlers are consulted after earlier ones.
func (r *Registry) Register(h Directive) {
	r.handlers = append(r.handlers, h)
}

// Find returns the first handler that matches the directive
func (r *Registry) Find(directive string) (Directive, error) {
	for _, h := range r.handlers {
		if h.Matches(directive) {
			return h, nil
		}
	}
	return nil, errors.Newf(errors.ErrDirectiveUnknown, "no handler for directive %q", directive).
		WithDetail("directive", directive)
}

// Names lists the registered handler names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for _, h := range r.handlers {
		names = append(names, h.Name())
	}
	return names
}
