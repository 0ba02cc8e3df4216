package spring

import (
	"context"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/observability"
	"github.com/matzehuels/springembed/pkg/packing"
)

var kernels = []KernelKind{KernelScalar, KernelUnrolled}

func newEmbedder(t *testing.T, opts Options) *Embedder {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

// callSingle runs e on g and returns the only component's result.
func callSingle(t *testing.T, e *Embedder, g *graph.Graph) ComponentStats {
	t.Helper()
	res, err := e.Call(context.Background(), g)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(res.Components) != 1 {
		t.Fatalf("len(Components) = %d, want 1", len(res.Components))
	}
	return res.Components[0]
}

func TestTwoNodesSettleAtForceBalance(t *testing.T) {
	// Attraction d²/k balances repulsion 0.052k²/d at d = k * 0.052^(1/3).
	k := 10.0
	want := k * math.Cbrt(repulsionScale)

	for _, kind := range kernels {
		t.Run(string(kind), func(t *testing.T) {
			g := buildGraph(t, []point{{0, 0}, {10, 0}}, [][2]int{{0, 1}})
			opts := testOptions(k)
			opts.Kernel = kind

			c := callSingle(t, newEmbedder(t, opts), g)
			if !c.Converged {
				t.Errorf("Converged = false after %d iterations", c.Iterations)
			}
			if c.Iterations >= opts.Iterations {
				t.Errorf("Iterations = %d, want < %d", c.Iterations, opts.Iterations)
			}
			if d := distance(g, 0, 1); !near(d, want, 0.1) {
				t.Errorf("distance = %v, want %v", d, want)
			}
		})
	}
}

func TestLogarithmicCoolingSettlesNearForceBalance(t *testing.T) {
	// A single spring overshoots its balance point every step, so under
	// t0/log2(i) it only stops once the cap falls below the tolerance
	// (ConvTolerance*k = 0.3). The distance then sits within two caps of d*.
	k := 10.0
	want := k * math.Cbrt(repulsionScale)

	for _, kind := range kernels {
		t.Run(string(kind), func(t *testing.T) {
			g := buildGraph(t, []point{{0, 0}, {10, 0}}, [][2]int{{0, 1}})
			opts := testOptions(k)
			opts.Cooling = CoolingLogarithmic
			opts.ConvTolerance = 0.03
			opts.Kernel = kind

			c := callSingle(t, newEmbedder(t, opts), g)
			if !c.Converged {
				t.Fatalf("Converged = false after %d iterations", c.Iterations)
			}
			if c.Iterations >= opts.Iterations {
				t.Errorf("Iterations = %d, want < %d", c.Iterations, opts.Iterations)
			}
			if d := distance(g, 0, 1); !near(d, want, 2*opts.ConvTolerance*k) {
				t.Errorf("distance = %v, want %v ± %v", d, want, 2*opts.ConvTolerance*k)
			}
		})
	}
}

func TestLogarithmicCoolingKeepsOscillatingAtDefaultTolerance(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {10, 0}}, [][2]int{{0, 1}})
	opts := testOptions(10)
	opts.Cooling = CoolingLogarithmic
	opts.Iterations = 200

	c := callSingle(t, newEmbedder(t, opts), g)
	if c.Converged || c.Iterations != 200 {
		t.Errorf("Iterations, Converged = %d, %v, want 200, false", c.Iterations, c.Converged)
	}
	for _, n := range g.Nodes() {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Fatalf("node %s = (%v, %v)", n.ID, n.X, n.Y)
		}
	}
}

func TestStartNearBalanceConvergesImmediately(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {3, 0}}, [][2]int{{0, 1}})
	c := callSingle(t, newEmbedder(t, testOptions(10)), g)

	if c.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", c.Iterations)
	}
	if !c.Converged {
		t.Error("Converged = false, want true")
	}
}

func TestConvergenceCheckDisabledRunsFullBudget(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {3, 0}}, [][2]int{{0, 1}})
	opts := testOptions(10)
	opts.Iterations = 25
	opts.CheckConvergence = false

	c := callSingle(t, newEmbedder(t, opts), g)
	if c.Iterations != 25 {
		t.Errorf("Iterations = %d, want 25", c.Iterations)
	}
	if c.Converged {
		t.Error("Converged = true, want false")
	}
}

func TestZeroIterationsKeepsInitializerPlacement(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {10, 0}}, [][2]int{{0, 1}})
	opts := testOptions(10)
	opts.Iterations = 0

	c := callSingle(t, newEmbedder(t, opts), g)

	a, b := g.NodeAt(0), g.NodeAt(1)
	if !near(a.X, 30, 1e-9) || !near(a.Y, 30, 1e-9) {
		t.Errorf("a = (%v, %v), want (30, 30)", a.X, a.Y)
	}
	if !near(b.X, 40, 1e-9) || !near(b.Y, 30, 1e-9) {
		t.Errorf("b = (%v, %v), want (40, 30)", b.X, b.Y)
	}
	if c.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", c.Iterations)
	}
	if want := (packing.Box{Width: 50, Height: 40}); c.Box != want {
		t.Errorf("Box = %+v, want %+v", c.Box, want)
	}
}

func TestSingleNodeIsShiftedBySeparation(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}}, nil)
	c := callSingle(t, newEmbedder(t, DefaultOptions()), g)

	n := g.NodeAt(0)
	if !near(n.X, 30, 1e-9) || !near(n.Y, 30, 1e-9) {
		t.Errorf("node = (%v, %v), want (30, 30)", n.X, n.Y)
	}
	if c.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", c.Iterations)
	}
	if c.Offset != (packing.Offset{}) {
		t.Errorf("Offset = %+v, want zero", c.Offset)
	}
}

func TestCoincidentNodesSeparate(t *testing.T) {
	for _, kind := range kernels {
		t.Run(string(kind), func(t *testing.T) {
			g := buildGraph(t, []point{{4, 4}, {4, 4}}, [][2]int{{0, 1}})
			opts := testOptions(10)
			opts.Kernel = kind

			callSingle(t, newEmbedder(t, opts), g)

			for _, n := range g.Nodes() {
				if math.IsNaN(n.X) || math.IsNaN(n.Y) {
					t.Fatalf("node %s = (%v, %v)", n.ID, n.X, n.Y)
				}
			}
			if d := distance(g, 0, 1); d <= 1 {
				t.Errorf("distance = %v, want > 1", d)
			}
		})
	}
}

func TestComponentsDoNotOverlap(t *testing.T) {
	pts := []point{{0, 0}, {10, 0}, {100, 100}, {110, 100}, {50, 50}}
	g := buildGraph(t, pts, [][2]int{{0, 1}, {2, 3}})
	opts := testOptions(10)
	opts.MinDistCC = 5

	res, err := newEmbedder(t, opts).Call(context.Background(), g)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if len(res.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(res.Components))
	}

	cc := graph.ConnectedComponents(g)
	for i := range cc.Count() {
		for j := i + 1; j < cc.Count(); j++ {
			a, b := g.BoundsOf(cc.Members[i]), g.BoundsOf(cc.Members[j])
			gapX := max(b.MinX-a.MaxX, a.MinX-b.MaxX)
			gapY := max(b.MinY-a.MaxY, a.MinY-b.MaxY)
			if gap := max(gapX, gapY); gap < opts.MinDistCC-1e-9 {
				t.Errorf("components %d and %d: gap = %v, want >= %v", i, j, gap, opts.MinDistCC)
			}
		}
	}
}

func TestCallKeepsTopologyAndAttributes(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {10, 0}, {5, 5}}, [][2]int{{0, 1}, {1, 2}})
	g.NodeAt(2).Width = 64
	g.NodeAt(2).Meta["label"] = "c"
	before := g.Edges()

	if _, err := newEmbedder(t, DefaultOptions()).Call(context.Background(), g); err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if got := g.Edges(); !slices.Equal(got, before) {
		t.Errorf("Edges() = %v, want %v", got, before)
	}
	if g.NodeAt(2).Width != 64 {
		t.Errorf("Width = %v, want 64", g.NodeAt(2).Width)
	}
	if got := g.NodeAt(2).Meta["label"]; got != "c" {
		t.Errorf("Meta[label] = %v, want c", got)
	}
}

func TestCallEmptyAndNilGraph(t *testing.T) {
	e := newEmbedder(t, DefaultOptions())

	res, err := e.Call(context.Background(), graph.New())
	if err != nil {
		t.Fatalf("Call(empty) error: %v", err)
	}
	if len(res.Components) != 0 {
		t.Errorf("len(Components) = %d, want 0", len(res.Components))
	}

	_, err = e.Call(context.Background(), nil)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("Call(nil) error = %v, want %v", err, errors.ErrCodeInvalidGraph)
	}
}

func TestKernelSelection(t *testing.T) {
	for _, tc := range []struct {
		kind KernelKind
		want string
	}{
		{KernelScalar, "scalar"},
		{KernelUnrolled, "unrolled"},
	} {
		opts := DefaultOptions()
		opts.Kernel = tc.kind
		if got := newEmbedder(t, opts).Kernel(); got != tc.want {
			t.Errorf("Kernel(%s) = %q, want %q", tc.kind, got, tc.want)
		}
	}

	if auto := newEmbedder(t, DefaultOptions()).Kernel(); auto != "scalar" && auto != "unrolled" {
		t.Errorf("Kernel(auto) = %q, want scalar or unrolled", auto)
	}
}

type shiftPacker struct{ dx float64 }

func (p shiftPacker) Pack(boxes []packing.Box, _ float64) []packing.Offset {
	out := make([]packing.Offset, len(boxes))
	for i := range out {
		out[i] = packing.Offset{X: p.dx * float64(i)}
	}
	return out
}

type brokenPacker struct{}

func (brokenPacker) Pack([]packing.Box, float64) []packing.Offset { return nil }

func TestCustomPacker(t *testing.T) {
	g := buildGraph(t, []point{{0, 0}, {0, 0}}, nil)
	opts := DefaultOptions()
	opts.Packer = shiftPacker{dx: 1000}

	res, err := newEmbedder(t, opts).Call(context.Background(), g)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if want := (packing.Offset{X: 1000}); res.Components[1].Offset != want {
		t.Errorf("Offset = %+v, want %+v", res.Components[1].Offset, want)
	}
	if x := g.NodeAt(1).X; !near(x, 1030, 1e-9) {
		t.Errorf("X = %v, want 1030", x)
	}

	opts.Packer = brokenPacker{}
	_, err = newEmbedder(t, opts).Call(context.Background(), g)
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Call() error = %v, want %v", err, errors.ErrCodeInternal)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu         sync.Mutex
	started    int
	components []int
	finished   int
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingHooks) OnComponentComplete(_ context.Context, index, _, _ int, _ bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components = append(h.components, index)
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++
}

func TestCallEmitsPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	g := buildGraph(t, []point{{0, 0}, {5, 0}, {9, 9}}, [][2]int{{0, 1}})
	if _, err := newEmbedder(t, DefaultOptions()).Call(context.Background(), g); err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if hooks.started != 1 {
		t.Errorf("OnLayoutStart calls = %d, want 1", hooks.started)
	}
	if !slices.Equal(hooks.components, []int{0, 1}) {
		t.Errorf("OnComponentComplete indexes = %v, want [0 1]", hooks.components)
	}
	if hooks.finished != 1 {
		t.Errorf("OnLayoutComplete calls = %d, want 1", hooks.finished)
	}
}

func BenchmarkCall(b *testing.B) {
	for _, kind := range kernels {
		b.Run(string(kind), func(b *testing.B) {
			pts := make([]point, 200)
			edges := make([][2]int, 0, 199)
			for i := range pts {
				pts[i] = point{float64(i % 20), float64(i / 20)}
				if i > 0 {
					edges = append(edges, [2]int{i - 1, i})
				}
			}
			opts := testOptions(10)
			opts.Kernel = kind
			opts.Iterations = 50
			e, err := New(opts)
			if err != nil {
				b.Fatal(err)
			}
			for b.Loop() {
				g := buildGraph(b, pts, edges)
				if _, err := e.Call(context.Background(), g); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
