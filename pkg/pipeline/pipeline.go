// Package pipeline runs the complete build → decompose → render flow for
// modgraph.
//
// The CLI and the HTTP server both go through a [Runner] so that validation,
// caching and artifact generation behave identically on every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Operations: [][]string{{"A", "B"}, {"B", "A"}},
//	    Formats:    []string{pipeline.FormatText, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Artifacts[pipeline.FormatText]))
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modgraph/pkg/cache"
	apperr "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
	"github.com/matzehuels/modgraph/pkg/graph/decompose"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultMaxIterations caps a decomposition run.
const DefaultMaxIterations = decompose.DefaultMaxIterations

// Format constants for output formats.
const (
	FormatText = "text" // snapshot sequence, one per line
	FormatJSON = "json" // full report
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Groups     []int      `json:"groups,omitempty"`
	Operations [][]string `json:"operations"`

	// Decompose options
	MaxIterations int  `json:"max_iterations,omitempty"`
	Strict        bool `json:"strict,omitempty"`
	Refresh       bool `json:"refresh,omitempty"`
	KeepInitial   bool `json:"keep_initial,omitempty"` // also return the graph before decomposition

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger          `json:"-"`
	OnStep func(decompose.Step) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution, also on a cache hit.
	RunID string

	// Graph is the decomposed graph.
	Graph *graph.Graph

	// Initial is the graph as built from the input, set when
	// Options.KeepInitial is true.
	Initial *graph.Graph

	// Report is the serializable outcome, as stored and served.
	Report *pkgio.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the report came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FinalNodes    int
	FinalEdges    int
	Iterations    int
	Merges        int
	DecomposeTime time.Duration
	RenderTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list such as "text,svg".
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Groups) == 0 {
		o.Groups = graph.AllGroups(len(o.Operations))
	}
	if err := apperr.ValidateInput(o.Groups, o.Operations); err != nil {
		return err
	}

	if o.MaxIterations < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "max_iterations must not be negative")
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Input returns the construction request described by o.
func (o *Options) Input() pkgio.Input {
	return pkgio.Input{Groups: o.Groups, Operations: o.Operations}
}

// DecomposeKeyOpts returns cache key options for the report.
func (o *Options) DecomposeKeyOpts() cache.DecomposeKeyOpts {
	return cache.DecomposeKeyOpts{
		MaxIterations: o.MaxIterations,
		Strict:        o.Strict,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
