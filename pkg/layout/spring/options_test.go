package spring

import (
	"testing"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("DefaultOptions().Validate() = %v", err)
	}
	if opts.IdealEdgeLength != graph.DefaultIdealEdgeLength() {
		t.Errorf("IdealEdgeLength = %v, want %v", opts.IdealEdgeLength, graph.DefaultIdealEdgeLength())
	}
	if opts.Iterations != 1000 || opts.Cooling != CoolingFactor || !opts.CheckConvergence || !opts.Noise {
		t.Errorf("unexpected defaults: %+v", opts)
	}
	if opts.MinDistCC != 20 || opts.PageRatio != 1 || opts.ConvTolerance != 0.01 {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"zero iterations", func(o *Options) { o.Iterations = 0 }, false},
		{"negative iterations", func(o *Options) { o.Iterations = -1 }, true},
		{"zero edge length", func(o *Options) { o.IdealEdgeLength = 0 }, true},
		{"negative separation", func(o *Options) { o.MinDistCC = -1 }, true},
		{"zero separation", func(o *Options) { o.MinDistCC = 0 }, false},
		{"zero page ratio", func(o *Options) { o.PageRatio = 0 }, true},
		{"negative tolerance", func(o *Options) { o.ConvTolerance = -0.1 }, true},
		{"cool factor above one", func(o *Options) { o.CoolFactorX = 1.5 }, true},
		{"cool factor zero", func(o *Options) { o.CoolFactorY = 0 }, true},
		{"log cooling ignores factors", func(o *Options) { o.Cooling = CoolingLogarithmic; o.CoolFactorX = 0 }, false},
		{"unknown cooling", func(o *Options) { o.Cooling = "linear" }, true},
		{"unknown kernel", func(o *Options) { o.Kernel = "gpu" }, true},
		{"empty kernel", func(o *Options) { o.Kernel = "" }, false},
		{"negative workers", func(o *Options) { o.Workers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if _, newErr := New(opts); (newErr != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", newErr, tt.wantErr)
			}
		})
	}
}
