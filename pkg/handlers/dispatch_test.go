package handlers_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/handlers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type call struct {
	directive string
	data      *yaml.Node
	defaults  map[string]interface{}
}

type fakeDirective struct {
	name   string
	result bool
	err    error
	calls  []call
}

func (f *fakeDirective) Name() string                  { return f.name }
func (f *fakeDirective) Matches(directive string) bool { return directive == f.name }

func (f *fakeDirective) Handle(_ context.Context, directive string, data interface{}, defaults map[string]interface{}) (bool, error) {
	node, _ := data.(*yaml.Node)
	f.calls = append(f.calls, call{directive: directive, data: node, defaults: defaults})
	return f.result, f.err
}

type hostDefaults map[string]map[string]interface{}

func (h hostDefaults) Defaults(directive string) map[string]interface{} {
	return h[directive]
}

func parse(t *testing.T, doc string) []config.Task {
	t.Helper()
	tasks, err := config.ParseDocument([]byte(doc))
	require.NoError(t, err)
	return tasks
}

func TestRegistry(t *testing.T) {
	sync := &fakeDirective{name: "sync"}
	link := &fakeDirective{name: "link"}
	r := handlers.NewRegistry(sync, link)

	assert.Equal(t, []string{"sync", "link"}, r.Names())

	found, err := r.Find("link")
	require.NoError(t, err)
	assert.Same(t, link, found)

	_, err = r.Find("shell")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirectiveUnknown))
	assert.Equal(t, "shell", errors.GetErrorDetails(err)["directive"])
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	first := &fakeDirective{name: "sync"}
	second := &fakeDirective{name: "sync"}
	r := handlers.NewRegistry(first)
	r.Register(second)

	found, err := r.Find("sync")
	require.NoError(t, err)
	assert.Same(t, first, found)
}

func TestDispatcher_RunsTasksInOrder(t *testing.T) {
	sync := &fakeDirective{name: "sync", result: true}
	var logs bytes.Buffer
	d := handlers.NewDispatcher(handlers.NewRegistry(sync), nil, zerolog.New(&logs))

	ok := d.Run(context.Background(), parse(t, `
- sync:
    ~/.zshrc: zshrc
- sync:
    ~/.vimrc: vimrc
`))
	assert.True(t, ok)
	require.Len(t, sync.calls, 2)
	assert.Equal(t, "~/.zshrc", sync.calls[0].data.Content[0].Value)
	assert.Equal(t, "~/.vimrc", sync.calls[1].data.Content[0].Value)
	assert.Contains(t, logs.String(), "All tasks executed successfully")
}

func TestDispatcher_LayersDefaults(t *testing.T) {
	sync := &fakeDirective{name: "sync", result: true}
	host := hostDefaults{"sync": {"rsync": "rsync", "fmode": int64(644)}}
	d := handlers.NewDispatcher(handlers.NewRegistry(sync), host, zerolog.Nop())

	ok := d.Run(context.Background(), parse(t, `
- sync:
    a: b
- defaults:
    sync:
      fmode: 600
      create: true
- sync:
    c: d
- defaults:
    sync:
      dmode: 700
- sync:
    e: f
`))
	assert.True(t, ok)
	require.Len(t, sync.calls, 3)

	assert.Equal(t, map[string]interface{}{"rsync": "rsync", "fmode": int64(644)}, sync.calls[0].defaults)
	assert.Equal(t, map[string]interface{}{"rsync": "rsync", "fmode": 600, "create": true}, sync.calls[1].defaults)
	assert.Equal(t, map[string]interface{}{"rsync": "rsync", "fmode": int64(644), "dmode": 700}, sync.calls[2].defaults,
		"a later defaults task replaces the earlier one for the same directive")
}

func TestDispatcher_UnknownDirectiveFailsRun(t *testing.T) {
	sync := &fakeDirective{name: "sync", result: true}
	var logs bytes.Buffer
	d := handlers.NewDispatcher(handlers.NewRegistry(sync), nil, zerolog.New(&logs))

	ok := d.Run(context.Background(), parse(t, `
- shell: ["echo hi"]
- sync: {a: b}
`))
	assert.False(t, ok)
	assert.Len(t, sync.calls, 1, "later tasks still run")
	assert.Contains(t, logs.String(), "Action shell not handled")
	assert.Contains(t, logs.String(), "Some tasks were not executed successfully")
}

func TestDispatcher_HandlerResults(t *testing.T) {
	tests := []struct {
		name   string
		result bool
		err    error
		want   bool
	}{
		{"success", true, nil, true},
		{"failure", false, nil, false},
		{"error", false, errors.New(errors.ErrConfigValid, "bad destination"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing := &fakeDirective{name: "sync", result: tt.result, err: tt.err}
			other := &fakeDirective{name: "link", result: true}
			var logs bytes.Buffer
			d := handlers.NewDispatcher(handlers.NewRegistry(failing, other), nil, zerolog.New(&logs))

			ok := d.Run(context.Background(), parse(t, "- sync: {a: b}\n- link: {c: d}\n"))
			assert.Equal(t, tt.want, ok)
			assert.Len(t, other.calls, 1)
			if tt.err != nil {
				assert.Contains(t, logs.String(), "bad destination")
			}
		})
	}
}

func TestDispatcher_InvalidDefaults(t *testing.T) {
	sync := &fakeDirective{name: "sync", result: true}
	d := handlers.NewDispatcher(handlers.NewRegistry(sync), nil, zerolog.Nop())

	ok := d.Run(context.Background(), parse(t, "- defaults: [1, 2]\n- sync: {a: b}\n"))
	assert.False(t, ok)
	assert.Len(t, sync.calls, 1)
}

func TestDispatcher_EmptyDocument(t *testing.T) {
	d := handlers.NewDispatcher(handlers.NewRegistry(), nil, zerolog.Nop())
	assert.True(t, d.Run(context.Background(), nil))
}
