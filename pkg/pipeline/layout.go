package pipeline

import (
	"context"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/layout/spring"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Layout is a positioned graph together with the solver's report. It is
// what the pipeline caches and what the JSON format serializes.
type Layout struct {
	Graph  *graph.Graph
	Solver *spring.Result
}

type layoutDoc struct {
	Algorithm string         `json:"algorithm"`
	Graph     graph.Document `json:"graph"`
	Solver    *spring.Result `json:"solver,omitempty"`
}

// GenerateLayout positions a copy of g. The input graph is not modified.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (Layout, error) {
	layoutOpts := opts.Layout
	if layoutOpts.Logger == nil {
		layoutOpts.Logger = opts.Logger
	}
	e, err := spring.New(layoutOpts)
	if err != nil {
		return Layout{}, err
	}

	work := g.Clone()
	res, err := e.Call(ctx, work)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Graph: work, Solver: res}, nil
}

// MarshalLayout serializes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no graph")
	}
	doc := layoutDoc{
		Algorithm: Algorithm,
		Graph:     graph.ToDocument(l.Graph),
		Solver:    l.Solver,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalLayout parses a layout produced by MarshalLayout. A bare graph
// document is accepted too and yields a layout without solver report.
func UnmarshalLayout(data []byte) (Layout, error) {
	var doc layoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout")
	}
	if doc.Algorithm == "" && len(doc.Graph.Nodes) == 0 {
		g, err := graph.UnmarshalGraph(data)
		if err != nil {
			return Layout{}, err
		}
		return Layout{Graph: g}, nil
	}

	g, err := graph.FromDocument(doc.Graph)
	if err != nil {
		return Layout{}, err
	}
	return Layout{Graph: g, Solver: doc.Solver}, nil
}

// ReadLayout parses a layout from r.
func ReadLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout")
	}
	return UnmarshalLayout(data)
}

// ReadLayoutFile parses the layout file at path.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadLayout(f)
}
