package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/decompose"
)

// Report is the persisted outcome of one decomposition run.
type Report struct {
	RunID      string           `json:"run_id" bson:"run_id"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at"`
	Input      Input            `json:"input" bson:"input"`
	Iterations int              `json:"iterations" bson:"iterations"`
	Merges     int              `json:"merges" bson:"merges"`
	Modules    int              `json:"modules" bson:"modules"`
	Snapshots  []string         `json:"snapshots" bson:"snapshots"`
	Trail      []decompose.Step `json:"trail,omitempty" bson:"trail,omitempty"`
	Graph      GraphDoc         `json:"graph" bson:"graph"`
}

// NewReport assembles a report from a finished run. g must be the graph that
// res was computed on.
func NewReport(runID string, in Input, g *graph.Graph, res *decompose.Result) *Report {
	modules := 0
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindModule {
			modules++
		}
	}
	return &Report{
		RunID:      runID,
		CreatedAt:  time.Now().UTC(),
		Input:      in,
		Iterations: res.Iterations,
		Merges:     res.Merges,
		Modules:    modules,
		Snapshots:  res.Snapshots,
		Trail:      res.Trail,
		Graph:      NewGraphDoc(g),
	}
}

// WriteReport encodes r as indented JSON.
func WriteReport(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadReport decodes a JSON report from r.
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode report")
	}
	return &rep, nil
}

// ImportReport reads a JSON report file.
func ImportReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.ErrCodeNotFound, err, "report %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}

// WriteSnapshots writes each snapshot on its own line, in order of first
// appearance. An edgeless graph is written as an empty line.
func WriteSnapshots(snapshots []string, w io.Writer) error {
	for _, s := range snapshots {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
