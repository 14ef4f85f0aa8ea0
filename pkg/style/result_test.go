package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultRender(t *testing.T) {
	DisableColor()

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "success",
			result: Result{Document: "install.conf.yaml", Success: true},
			want:   "✓ install.conf.yaml synchronized",
		},
		{
			name:   "failure",
			result: Result{Document: "install.conf.yaml"},
			want:   "✗ install.conf.yaml some tasks failed, run with -v for details",
		},
		{
			name:   "dry run",
			result: Result{Document: "install.conf.yaml", Success: true, DryRun: true},
			want:   "○ install.conf.yaml dry run, nothing was synchronized",
		},
		{
			name:   "failed dry run reports the failure",
			result: Result{Document: "a.yaml", DryRun: true},
			want:   "✗ a.yaml some tasks failed, run with -v for details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Render())
		})
	}
}
