package store

import (
	"context"
	stderrors "errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/layout/spring"
	"github.com/matzehuels/springembed/pkg/pipeline"
)

func sampleLayout(t *testing.T) pipeline.Layout {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: "a", X: 30, Y: 30, Width: 20, Height: 20}))
	require.NoError(t, g.AddNode(graph.Node{ID: "b", X: 34, Y: 30, Width: 20, Height: 20, Meta: graph.Metadata{"k": "v"}}))
	require.NoError(t, g.AddEdge("a", "b"))
	return pipeline.Layout{
		Graph:  g,
		Solver: &spring.Result{Kernel: "scalar", Components: []spring.ComponentStats{{Nodes: 2, Edges: 1, Iterations: 31, Converged: true}}},
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	rec := NewRecord(sampleLayout(t), time.Hour)
	require.NoError(t, ValidateID(rec.ID))
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, pipeline.Algorithm, got.Algorithm)
	require.NotNil(t, got.Solver)
	assert.Equal(t, 31, got.Solver.Components[0].Iterations)

	l, err := got.Layout()
	require.NoError(t, err)
	b, ok := l.Graph.Node("b")
	require.True(t, ok)
	assert.Equal(t, 34.0, b.X)
	assert.Equal(t, 1, l.Graph.EdgeCount())

	_, err = s.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutNotFound))

	expired := NewRecord(sampleLayout(t), time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.Save(ctx, expired))
	_, err = s.Get(ctx, expired.ID)
	assert.True(t, stderrors.Is(err, ErrNotFound), "expired record should be hidden")

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.NoError(t, s.Delete(ctx, rec.ID), "deleting twice is fine")
	assert.NoError(t, s.Cleanup(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	live := NewRecord(sampleLayout(t), time.Hour)
	dead := NewRecord(sampleLayout(t), time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, s.Save(ctx, live))
	require.NoError(t, s.Save(ctx, dead))
	require.Equal(t, 2, s.Len())

	require.NoError(t, s.Cleanup(ctx))
	assert.Equal(t, 1, s.Len())
	_, err := s.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := NewRecord(sampleLayout(t), time.Hour)
	require.NoError(t, s.Save(ctx, rec))

	rec.Algorithm = "changed"
	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Algorithm, got.Algorithm)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("9b2f3a52-6f43-4d55-9d52-2d1cdbd4b8a1"))
	for _, id := range []string{"", "abc", "../etc/passwd"} {
		err := ValidateID(id)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "ValidateID(%q) = %v", id, err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SPRINGEMBED_TEST_MONGO")
	if uri == "" {
		t.Skip("SPRINGEMBED_TEST_MONGO not set")
	}

	cfg := DefaultMongoConfig()
	cfg.URI = uri
	cfg.Database = "springembed_test"
	cfg.Collection = "layouts_" + time.Now().Format("20060102150405")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := NewMongoStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.coll.Drop(context.Background())
		_ = s.Close()
	})

	exerciseStore(t, s)
}
