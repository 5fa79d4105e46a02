package decompose

import (
	"errors"
	"fmt"

	"github.com/matzehuels/modgraph/pkg/graph"
)

// ErrIterationLimit is returned by [Decompose] when the graph is still
// shrinking after Options.MaxIterations full iterations.
var ErrIterationLimit = errors.New("iteration limit exceeded")

// DefaultMaxIterations bounds a run when Options.MaxIterations is zero.
// Every iteration except the last removes at least one node, so a graph of n
// nodes never needs more than n+1 iterations; the cap only guards against
// callers that feed in pathological graphs or set a tighter budget.
const DefaultMaxIterations = 1000

// Pass names one step of a decomposition iteration.
type Pass string

const (
	PassInitial     Pass = "initial"
	PassSources     Pass = "sources"
	PassSinks       Pass = "sinks"
	PassMutual      Pass = "mutual"
	PassCycle       Pass = "cycle"
	PassConvergence Pass = "convergence"
)

// passes is the fixed order of one iteration. Order and first-match-only
// semantics of the merge passes make runs deterministic.
var passes = []struct {
	name  Pass
	merge bool
	run   func(*graph.Graph) int
}{
	{PassSources, false, TagSources},
	{PassSinks, false, TagSinks},
	{PassMutual, true, func(g *graph.Graph) int {
		if MergeMutualPair(g) {
			return 1
		}
		return 0
	}},
	{PassCycle, true, MergeCycle},
	{PassConvergence, true, MergeConvergence},
}

// Passes returns the pass names of one iteration in execution order.
func Passes() []Pass {
	names := make([]Pass, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// Step records the graph state after one pass.
type Step struct {
	Iteration int    `json:"iteration"`
	Pass      Pass   `json:"pass"`
	Matched   int    `json:"matched"` // nodes tagged, or merges performed
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Snapshot  string `json:"snapshot"`
}

// Options configures [Decompose]. The zero value is ready to use.
type Options struct {
	// MaxIterations caps the number of full iterations. Zero means
	// DefaultMaxIterations.
	MaxIterations int

	// Strict validates graph invariants after every pass and aborts the run
	// on the first violation.
	Strict bool

	// OnStep, if set, is called after the initial snapshot and after every
	// pass.
	OnStep func(Step)
}

// Result is the audit trail of a decomposition run.
type Result struct {
	// Snapshots holds every distinct snapshot in the order it first appeared,
	// starting with the graph as it was before the first pass.
	Snapshots []string `json:"snapshots"`

	// Trail holds one entry per pass, including repeated snapshots.
	Trail []Step `json:"trail"`

	Iterations int `json:"iterations"`
	Merges     int `json:"merges"`
}

// Decompose contracts g in place until a fixed point is reached: a full
// iteration of the five passes (sources, sinks, mutual pair, cycle,
// convergence) that leaves the node count unchanged.
//
// On ErrIterationLimit or a Strict validation failure the partial result is
// returned alongside the error.
func Decompose(g *graph.Graph, opts Options) (*Result, error) {
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	r := &Result{}
	seen := make(map[string]struct{})
	record := func(s Step) {
		s.Nodes, s.Edges, s.Snapshot = g.NodeCount(), g.EdgeCount(), g.Snapshot()
		r.Trail = append(r.Trail, s)
		if _, dup := seen[s.Snapshot]; !dup {
			seen[s.Snapshot] = struct{}{}
			r.Snapshots = append(r.Snapshots, s.Snapshot)
		}
		if opts.OnStep != nil {
			opts.OnStep(s)
		}
	}

	record(Step{Pass: PassInitial})
	for r.Iterations < limit {
		r.Iterations++
		start := g.NodeCount()
		for _, p := range passes {
			matched := p.run(g)
			if p.merge {
				r.Merges += matched
			}
			record(Step{Iteration: r.Iterations, Pass: p.name, Matched: matched})
			if opts.Strict {
				if err := g.Validate(); err != nil {
					return r, fmt.Errorf("iteration %d, %s pass: %w", r.Iterations, p.name, err)
				}
			}
		}
		if g.NodeCount() == start {
			return r, nil
		}
	}
	return r, fmt.Errorf("%w: %d iterations, %d nodes remain", ErrIterationLimit, limit, g.NodeCount())
}
