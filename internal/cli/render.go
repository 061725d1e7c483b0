package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaiyan-alam/pegasus/pkg/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (defaults to stdout)
	format   string // output format: "dot" or "svg"
	detailed bool   // label nodes with their full transformation identity
}

// newRenderCmd creates the render command for drawing the job graph.
// DOT output only needs the codec; SVG output runs the graph through
// Graphviz.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a workflow's job graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their full transformation identity")

	return cmd
}

// validFormats are the supported output formats.
var validFormats = map[string]bool{
	formatDOT: true,
	formatSVG: true,
}

func validateFormat(format string) error {
	if !validFormats[format] {
		return fmt.Errorf("invalid format %q (valid: dot, svg)", format)
	}
	return nil
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	a, err := readWorkflow(input)
	if err != nil {
		return err
	}

	logger.Debugf("Rendering %s as %s", a.Name(), opts.format)
	graph := dot.FromADAG(a, dot.Options{Detailed: opts.detailed})

	data := []byte(graph)
	if opts.format == formatSVG {
		prog := newProgress(logger)
		data, err = dot.RenderSVG(graph)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %d nodes", len(a.Nodes())))
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
