package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from the report path when empty
	format   string // svg or dot
	detailed bool   // list merged members in node labels
}

// renderCommand creates the render command, which draws the final graph of a
// saved JSON report.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render [report.json]",
		Short: "Render the final graph of a saved report",
		Long: `Render draws the final graph of a report written by
"modgraph decompose -f json". Modules are highlighted and merged nodes are
drawn with a heavier outline.`,
		Example: `  modgraph render report.json
  modgraph render report.json --format dot -o graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatSVG && opts.format != pipeline.FormatDOT {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", opts.format)
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <report>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list merged members in node labels")

	return cmd
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	rep, err := pkgio.ImportReport(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded report %s: %d nodes, %d modules", rep.RunID, len(rep.Graph.Nodes), rep.Modules)

	spin := newSpinnerWithContext(ctx, "Rendering "+opts.format+"...")
	spin.Start()
	data, err := pipeline.RenderReport(ctx, rep, opts.format, opts.detailed)
	spin.Stop()
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = basePath("", input) + "." + opts.format
	}
	if err := writeOutput(path, data, logger); err != nil {
		return err
	}
	printSuccess("Rendered %d nodes", len(rep.Graph.Nodes))
	return nil
}
