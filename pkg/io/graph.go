package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
)

// GraphDoc is the serialized form of a graph.
type GraphDoc struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
}

// NodeDoc is one node of a [GraphDoc].
type NodeDoc struct {
	ID         int      `json:"id"`
	Label      string   `json:"label"`
	Members    []string `json:"members"`
	Kind       string   `json:"kind"`
	MergeCount int      `json:"merge_count"`
}

// EdgeDoc references its endpoints by node ID.
type EdgeDoc struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// NewGraphDoc captures the current state of g. Nodes appear in insertion order
// and edges in the order [graph.Graph.Snapshot] visits them.
func NewGraphDoc(g *graph.Graph) GraphDoc {
	nodes := g.Nodes()
	doc := GraphDoc{
		Nodes: make([]NodeDoc, len(nodes)),
		Edges: []EdgeDoc{},
	}
	for i, n := range nodes {
		doc.Nodes[i] = NodeDoc{
			ID:         int(n.ID),
			Label:      n.Label,
			Members:    append([]string(nil), n.Members...),
			Kind:       n.Kind.String(),
			MergeCount: n.MergeCount,
		}
		for _, c := range g.Children(n) {
			doc.Edges = append(doc.Edges, EdgeDoc{From: int(n.ID), To: int(c.ID)})
		}
	}
	return doc
}

// Graph rebuilds a graph from the document and validates it.
func (d GraphDoc) Graph() (*graph.Graph, error) {
	g := graph.New()
	byID := make(map[int]*graph.Node, len(d.Nodes))
	for _, nd := range d.Nodes {
		if _, dup := byID[nd.ID]; dup {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "duplicate node id %d", nd.ID)
		}
		n := g.Insert(nd.Label)
		if len(nd.Members) > 0 {
			n.Members = append([]string(nil), nd.Members...)
		}
		n.Kind = graph.ParseKind(nd.Kind)
		if nd.MergeCount > 0 {
			n.MergeCount = nd.MergeCount
		}
		byID[nd.ID] = n
	}
	for _, e := range d.Edges {
		from, ok := byID[e.From]
		if !ok {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "edge %d->%d: unknown node %d", e.From, e.To, e.From)
		}
		to, ok := byID[e.To]
		if !ok {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "edge %d->%d: unknown node %d", e.From, e.To, e.To)
		}
		if from == to {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, graph.ErrSelfLoop, "edge %d->%d", e.From, e.To)
		}
		g.AddEdge(from, to)
	}
	if err := g.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid graph")
	}
	return g, nil
}

// WriteGraph encodes g as an indented JSON [GraphDoc].
// The output can be re-imported with [ReadGraph].
func WriteGraph(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewGraphDoc(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON [GraphDoc] from r.
//
// ReadGraph returns an error if the JSON is malformed, a node ID repeats, an
// edge references an unknown ID or the restored graph fails
// [graph.Graph.Validate]. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	var doc GraphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode graph")
	}
	return doc.Graph()
}

// ExportGraph writes g to a JSON file at path.
func ExportGraph(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}
