package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/graph"
	pkgio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/pipeline"
)

// stdinName is the base name for outputs derived from standard input.
const stdinName = "modgraph"

// decomposeOpts holds the command-line flags for the decompose command.
type decomposeOpts struct {
	groups        string // comma-separated row indices, overriding the file's selection
	formats       string // comma-separated output formats
	output        string // output file (single format) or base path (multiple)
	inputFormat   string // json, toml or yaml; inferred from the extension when empty
	graphOut      string // final graph document
	initialOut    string // graph document before decomposition
	maxIterations int
	strict        bool
	detailed      bool // list merged members in DOT/SVG labels
	noCache       bool
	refresh       bool
	interactive   bool
}

func (c *CLI) decomposeCommand() *cobra.Command {
	opts := decomposeOpts{maxIterations: pipeline.DefaultMaxIterations}

	cmd := &cobra.Command{
		Use:   "decompose [file]",
		Short: "Decompose operation sequences into modules",
		Long: `Decompose builds a precedence graph from the selected operation sequences
and collapses it until a fixed point. The text output lists every distinct
snapshot seen across all passes, in the order it first appeared.

The input is a JSON, TOML or YAML document with "groups" and "operations".
Without a file, or with "-", the input is read from stdin.`,
		Example: `  modgraph decompose ops.json
  modgraph decompose ops.yaml --groups 0,2 --format text,svg -o out
  cat ops.json | modgraph decompose --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runDecompose(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.groups, "groups", "g", "", "row indices to decompose, e.g. 0,2 (default: from file, else all rows)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatText, "output format(s): text, json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: json, toml, yaml (default: from extension)")
	cmd.Flags().StringVar(&opts.graphOut, "graph-out", "", "also write the final graph as a JSON document")
	cmd.Flags().StringVar(&opts.initialOut, "initial-out", "", "also write the graph before decomposition as a JSON document")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", opts.maxIterations, "abort after this many iterations")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "validate graph invariants after every pass")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list merged members in diagram labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "step through the passes in a terminal UI")

	return cmd
}

func (c *CLI) runDecompose(ctx context.Context, path string, opts *decomposeOpts) error {
	logger := loggerFromContext(ctx)

	in, err := loadInput(path, opts.inputFormat)
	if err != nil {
		return err
	}
	if opts.groups != "" {
		groups, err := parseGroups(opts.groups)
		if err != nil {
			return fmt.Errorf("invalid --groups: %w", err)
		}
		in.Groups = groups
	}

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.interactive || len(formats) == 0 {
		formats = []string{pipeline.FormatText}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Groups:        in.Groups,
		Operations:    in.Operations,
		MaxIterations: opts.maxIterations,
		Strict:        opts.strict,
		Refresh:       opts.refresh,
		KeepInitial:   opts.initialOut != "",
		Formats:       formats,
		Detailed:      opts.detailed,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Decomposed %d rows", len(in.Selected())))

	if opts.interactive {
		return runStepper(result.Report)
	}

	if err := writeArtifacts(result.Artifacts, formats, opts.output, path, logger); err != nil {
		return err
	}
	if err := exportGraphs(result, opts); err != nil {
		return err
	}

	rep := result.Report
	printSuccess("Reached fixed point")
	printStats(runStats{
		nodes:      result.Stats.FinalNodes,
		modules:    rep.Modules,
		iterations: rep.Iterations,
		merges:     rep.Merges,
		cached:     result.CacheHit,
	})
	if !slices.Contains(formats, pipeline.FormatJSON) {
		src := path
		if src == "" {
			src = "-"
		}
		printNextStep("Save the full report", "modgraph decompose "+src+" -f json -o report.json")
	}
	return nil
}

// exportGraphs writes the graph documents requested by --graph-out and
// --initial-out.
func exportGraphs(result *pipeline.Result, opts *decomposeOpts) error {
	for _, out := range []struct {
		path string
		g    *graph.Graph
	}{
		{opts.graphOut, result.Graph},
		{opts.initialOut, result.Initial},
	} {
		if out.path == "" || out.g == nil {
			continue
		}
		if err := pkgio.ExportGraph(out.g, out.path); err != nil {
			return err
		}
		printFile(out.path)
	}
	return nil
}

// loadInput reads the input document from path, or from stdin when path is
// empty or "-".
func loadInput(path, format string) (*pkgio.Input, error) {
	if path == "" || path == "-" {
		if format == "" {
			format = string(pkgio.FormatJSON)
		}
		f, err := pkgio.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		return pkgio.ReadInput(os.Stdin, f)
	}

	if format == "" {
		return pkgio.ImportInput(path)
	}
	f, err := pkgio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return pkgio.ReadInput(file, f)
}

// writeArtifacts writes a single artifact to output (stdout when empty), or
// several artifacts to <base>.<format>.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string, logger interface{ Debugf(string, ...any) }) error {
	if len(formats) == 1 {
		return writeOutput(output, artifacts[formats[0]], logger)
	}

	base := basePath(output, input)
	for _, f := range formats {
		if err := writeOutput(base+"."+f, artifacts[f], logger); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(path string, data []byte, logger interface{ Debugf(string, ...any) }) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	logger.Debugf("Wrote %d bytes", len(data))
	if path != "" {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == "-" {
			return stdinName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
