package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/persist"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; derived from input when empty
	format   string // output format: "svg", "png", "dot"
	detailed bool   // include element kinds and properties in labels
}

// validRenderFormats is the set of supported output formats.
var validRenderFormats = map[string]bool{"svg": true, "png": true, "dot": true}

// newRenderCmd creates the render command for exporting diagrams through
// Graphviz.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Export a diagram as DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validRenderFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", opts.format)
			}
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include element kinds and properties in labels")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	d, err := persist.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d nodes, %d edges", d.TypeName(), len(d.AllNodes()), d.EdgeCount())

	detailed := opts.detailed || configFromContext(ctx).Render.Detailed
	dot := persist.ToDOT(d, persist.DOTOptions{Detailed: detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		logger.Debug("Rendering SVG")
		data, err = persist.RenderSVG(ctx, dot)
	case "png":
		logger.Debug("Rendering PNG")
		data, err = persist.RenderPNG(ctx, dot)
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done(fmt.Sprintf("Rendered %s", input))
	printFile(output)
	return nil
}
