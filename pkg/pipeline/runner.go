package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/modgraph/pkg/cache"
	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/decompose"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeReport   = "report"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → decompose → render pipeline with caching.
//
// When the decomposition hits the iteration cap the error carries
// ErrCodeIterationLimit and no result is returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}

	start := time.Now()
	rep, initial, g, hit, err := r.decomposeRun(ctx, result.RunID, opts)
	if err != nil {
		return nil, err
	}
	result.Report = rep
	result.Graph = g
	result.Initial = initial
	result.CacheHit = hit
	result.Stats.DecomposeTime = time.Since(start)
	result.Stats.FinalNodes = g.NodeCount()
	result.Stats.FinalEdges = g.EdgeCount()
	result.Stats.Iterations = rep.Iterations
	result.Stats.Merges = rep.Merges

	opts.Logger.Info("decomposed graph",
		"run", result.RunID,
		"nodes", g.NodeCount(),
		"iterations", rep.Iterations,
		"merges", rep.Merges,
		"cached", hit,
		"duration", result.Stats.DecomposeTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, rep, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecomposeWithCacheInfo builds and decomposes the graph described by opts,
// or restores the report from the cache. The returned report carries runID
// either way.
func (r *Runner) DecomposeWithCacheInfo(ctx context.Context, runID string, opts Options) (*pkgio.Report, *graph.Graph, bool, error) {
	rep, _, g, hit, err := r.decomposeRun(ctx, runID, opts)
	return rep, g, hit, err
}

// decomposeRun is DecomposeWithCacheInfo plus the undecomposed graph, which
// is only produced when opts.KeepInitial is set.
func (r *Runner) decomposeRun(ctx context.Context, runID string, opts Options) (rep *pkgio.Report, initial, g *graph.Graph, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, nil, false, fmt.Errorf("invalid options: %w", err)
	}

	in := opts.Input()
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return nil, nil, nil, false, apperr.Wrap(apperr.ErrCodeInternal, err, "hash input")
	}
	cacheKey := r.Keyer.DecomposeKey(inputHash, opts.DecomposeKeyOpts())

	if !opts.Refresh {
		if rep, g, ok := r.cachedReport(ctx, cacheKey, opts.Logger); ok {
			rep.RunID = runID
			rep.CreatedAt = time.Now().UTC()
			if opts.KeepInitial {
				if initial, err = in.Build(); err != nil {
					return nil, nil, nil, false, err
				}
			}
			return rep, initial, g, true, nil
		}
	}

	g, err = in.Build()
	if err != nil {
		return nil, nil, nil, false, err
	}
	if opts.KeepInitial {
		initial = g.Clone()
	}
	res, err := r.decompose(ctx, g, opts)
	if err != nil {
		return nil, nil, nil, false, err
	}

	rep = pkgio.NewReport(runID, in, g, res)
	var buf bytes.Buffer
	if err := pkgio.WriteReport(rep, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.DefaultTTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeReport, buf.Len())
		}
	}
	return rep, initial, g, false, nil
}

func (r *Runner) cachedReport(ctx context.Context, key string, logger *log.Logger) (*pkgio.Report, *graph.Graph, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
		return nil, nil, false
	}

	rep, err := pkgio.ReadReport(bytes.NewReader(data))
	if err != nil {
		logger.Debug("discarding unreadable cache entry", "error", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
		return nil, nil, false
	}
	g, err := rep.Graph.Graph()
	if err != nil {
		logger.Debug("discarding invalid cached graph", "error", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
		return nil, nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeReport)
	return rep, g, true
}

func (r *Runner) decompose(ctx context.Context, g *graph.Graph, opts Options) (*decompose.Result, error) {
	hooks := observability.Decompose()
	hooks.OnRunStart(ctx, g.NodeCount())
	opts.Logger.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	start := time.Now()
	res, err := decompose.Decompose(g, decompose.Options{
		MaxIterations: opts.MaxIterations,
		Strict:        opts.Strict,
		OnStep: func(s decompose.Step) {
			if s.Pass != decompose.PassInitial {
				hooks.OnPass(ctx, string(s.Pass), s.Matched)
			}
			if s.Matched > 0 {
				opts.Logger.Debug("pass matched",
					"iteration", s.Iteration,
					"pass", s.Pass,
					"matched", s.Matched,
					"nodes", s.Nodes)
			}
			if opts.OnStep != nil {
				opts.OnStep(s)
			}
		},
	})
	iterations, merges := 0, 0
	if res != nil {
		iterations, merges = res.Iterations, res.Merges
	}
	hooks.OnRunComplete(ctx, iterations, merges, time.Since(start), err)

	switch {
	case errors.Is(err, decompose.ErrIterationLimit):
		return nil, apperr.Wrap(apperr.ErrCodeIterationLimit, err, "graph did not reach a fixed point")
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "decomposition failed")
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
