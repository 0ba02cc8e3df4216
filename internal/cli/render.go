package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/springembed/pkg/errors"
	"github.com/matzehuels/springembed/pkg/pipeline"
)

// renderCommand creates the render command for drawing a computed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout to DOT or SVG",
		Long: `Render a layout produced by 'layout' to Graphviz DOT or SVG.

Nodes are pinned at their computed coordinates; Graphviz only draws them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats:  parseFormats(formatsStr, pipeline.FormatSVG),
				Detailed: detailed,
				Logger:   c.Logger,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show coordinates in node labels")
	registerFormatCompletion(cmd)

	return cmd
}

// runRender loads a layout and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	layout, err := pipeline.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	c.Logger.Debugf("Loaded layout: %d nodes, %d edges", layout.Graph.NodeCount(), layout.Graph.EdgeCount())

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	base := renderBasePath(input, output)
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + pipeline.Extension(format)
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := writeOutput(path, artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(layout.Graph.NodeCount(), layout.Graph.EdgeCount(), cacheHit)

	return nil
}

// renderBasePath derives the base path for rendered files. With no output
// "g.layout.json" renders to "g.svg".
func renderBasePath(input, output string) string {
	if output == "" {
		return trimLayoutExt(input)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
