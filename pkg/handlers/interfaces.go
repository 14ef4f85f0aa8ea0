package handlers

import "context"

// Directive is implemented by every handler a document can address
type Directive interface {
	// Name returns the directive this handler is registered under
	Name() string

	// Matches reports whether the handler processes the named directive
	Matches(directive string) bool

	// Handle processes the data of one task. defaults holds the layered
	// defaults for the directive. The boolean is the overall success of the
	// task; an error is returned only for problems the handler could not
	// turn into a failed run, such as invalid configuration.
	Handle(ctx context.Context, directive string, data interface{}, defaults map[string]interface{}) (bool, error)
}

// DefaultsProvider supplies host-level defaults for a directive
type DefaultsProvider interface {
	Defaults(directive string) map[string]interface{}
}
