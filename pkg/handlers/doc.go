// Package handlers defines the directive interface and dispatches the tasks
// of a directive document to the handlers that claim them.
package handlers
