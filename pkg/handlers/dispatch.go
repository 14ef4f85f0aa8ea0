package handlers

import (
	"context"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/rs/zerolog"
)

// Dispatcher runs the tasks of a directive document in order
type Dispatcher struct {
	registry *Registry
	host     DefaultsProvider
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher. host may be nil.
func NewDispatcher(registry *Registry, host DefaultsProvider, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, host: host, logger: logger}
}

// Run dispatches every task and returns whether all of them succeeded.
// A failing task never stops the ones after it.
func (d *Dispatcher) Run(ctx context.Context, tasks []config.Task) bool {
	success := true
	documentDefaults := map[string]map[string]interface{}{}

	for _, task := range tasks {
		logger := d.logger.With().Str("directive", task.Directive).Logger()

		if task.Directive == config.DefaultsDirective {
			defaults, err := config.DecodeDefaults(task.Data)
			if err != nil {
				logger.Warn().Err(err).Msg("Ignoring invalid defaults")
				success = false
				continue
			}
			for directive, values := range defaults {
				documentDefaults[directive] = values
			}
			continue
		}

		handler, err := d.registry.Find(task.Directive)
		if err != nil {
			logger.Warn().Msgf("Action %s not handled", task.Directive)
			success = false
			continue
		}

		ok, err := handler.Handle(ctx, task.Directive, task.Data, d.defaultsFor(task.Directive, documentDefaults))
		if err != nil {
			logger.Warn().Err(err).Str("handler", handler.Name()).Msg("An error was encountered while executing action")
			success = false
			continue
		}
		success = success && ok
	}

	if success {
		d.logger.Info().Msg("All tasks executed successfully")
	} else {
		d.logger.Warn().Msg("Some tasks were not executed successfully")
	}
	return success
}

// defaultsFor layers the document's defaults over the host's, key by key
func (d *Dispatcher) defaultsFor(directive string, document map[string]map[string]interface{}) map[string]interface{} {
	merged := map[string]interface{}{}
	if d.host != nil {
		for k, v := range d.host.Defaults(directive) {
			merged[k] = v
		}
	}
	for k, v := range document[directive] {
		merged[k] = v
	}
	return merged
}
