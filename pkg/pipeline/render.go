package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/modgraph/pkg/cache"
	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/observability"
	"github.com/matzehuels/modgraph/pkg/render/nodelink"
)

// Render generates the artifacts requested in opts.Formats. SVG output is
// cached by the content of the final graph.
func (r *Runner) Render(ctx context.Context, rep *pkgio.Report, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Decompose().OnRenderStart(ctx, format)

		var data []byte
		var err error
		if format == FormatSVG {
			data, err = r.renderSVGCached(ctx, rep, g, opts)
		} else {
			data, err = RenderArtifact(ctx, rep, g, format, opts.Detailed)
		}

		observability.Decompose().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func (r *Runner) renderSVGCached(ctx context.Context, rep *pkgio.Report, g *graph.Graph, opts Options) ([]byte, error) {
	graphHash, err := cache.HashJSON(rep.Graph)
	if err != nil {
		return RenderArtifact(ctx, rep, g, FormatSVG, opts.Detailed)
	}
	key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(FormatSVG))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	data, err := RenderArtifact(ctx, rep, g, FormatSVG, opts.Detailed)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, nil
}

// RenderArtifact produces a single artifact without caching.
func RenderArtifact(ctx context.Context, rep *pkgio.Report, g *graph.Graph, format string, detailed bool) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatText:
		if err := pkgio.WriteSnapshots(rep.Snapshots, &buf); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := pkgio.WriteReport(rep, &buf); err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed, Title: rep.RunID}))
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}

// RenderReport renders the final graph of a stored report as DOT or SVG.
func RenderReport(ctx context.Context, rep *pkgio.Report, format string, detailed bool) ([]byte, error) {
	if format != FormatDOT && format != FormatSVG {
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "graph output supports dot or svg, got %q", format)
	}
	g, err := rep.Graph.Graph()
	if err != nil {
		return nil, err
	}
	return RenderArtifact(ctx, rep, g, format, detailed)
}
