package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/springembed/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// =============================================================================
// Wire Format
// =============================================================================

// Document is the node-link serialization of a Graph.
//
// The format is designed for round-trip fidelity: read → layout → write →
// read produces the same node order, which keeps layouts reproducible.
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is the serialized form of a Node. Optional fields use pointers so
// a missing size can be told apart from an explicit zero.
type NodeDoc struct {
	ID     string   `json:"id" bson:"id"`
	X      float64  `json:"x" bson:"x"`
	Y      float64  `json:"y" bson:"y"`
	Width  *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height *float64 `json:"height,omitempty" bson:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Meta   Metadata `json:"meta,omitempty" bson:"meta,omitempty"`
}

// EdgeDoc is the serialized form of an Edge.
type EdgeDoc struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Conversion
// =============================================================================

// ToDocument converts a Graph to its wire form. Nodes keep insertion order.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]NodeDoc, 0, g.NodeCount()),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.nodes {
		w, h, wt := n.Width, n.Height, n.Weight
		nd := NodeDoc{ID: n.ID, X: n.X, Y: n.Y, Width: &w, Height: &h}
		if wt != 0 {
			nd.Weight = &wt
		}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, EdgeDoc{From: e.From, To: e.To})
	}
	return doc
}

// FromDocument builds a Graph from its wire form. Missing sizes default to
// the layout standards, missing weights to 1. Non-finite numbers, invalid IDs
// and dangling edges are reported as ErrCodeInvalidGraph errors.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	for _, nd := range doc.Nodes {
		if err := errors.ValidateNodeID(nd.ID); err != nil {
			return nil, err
		}
		n := Node{
			ID:     nd.ID,
			X:      nd.X,
			Y:      nd.Y,
			Width:  valueOr(nd.Width, DefaultNodeWidth),
			Height: valueOr(nd.Height, DefaultNodeHeight),
			Weight: valueOr(nd.Weight, 1),
			Meta:   nd.Meta,
		}
		for name, v := range map[string]float64{"x": n.X, "y": n.Y, "width": n.Width, "height": n.Height, "weight": n.Weight} {
			if err := errors.ValidateCoordinate(nd.ID+"."+name, v); err != nil {
				return nil, err
			}
		}
		if n.Width < 0 || n.Height < 0 {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "node %q has a negative size", nd.ID)
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", nd.ID)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %q -> %q", e.From, e.To)
		}
	}
	return g, nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a Graph.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	return FromDocument(doc)
}

// WriteGraphFile writes a Graph to a JSON file with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON file and returns the decoded Graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
