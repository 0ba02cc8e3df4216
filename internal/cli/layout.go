package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/springembed/pkg/graph"
	"github.com/matzehuels/springembed/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning a graph.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		refresh    bool
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Position the nodes of a graph with the spring embedder",
		Long: `Position the nodes of a graph with the spring embedder.

The layout command reads a graph.json file, lays out every connected component
and packs the components into rows. The result is written to
<input>.layout.json; add -f dot or -f svg to also write rendered artifacts.

Solver flags override the config file and SPRINGEMBED_LAYOUT_* variables.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.bindFlags(cmd.Flags(), layoutKeys)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			formats := parseFormats(formatsStr, pipeline.FormatJSON)
			if !slices.Contains(formats, pipeline.FormatJSON) {
				formats = append([]string{pipeline.FormatJSON}, formats...)
			}
			opts := pipeline.Options{
				Layout:   cfg.Layout,
				Formats:  formats,
				Detailed: detailed,
				Refresh:  refresh,
				Logger:   c.Logger,
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "additional output format(s): dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show coordinates in rendered labels")
	addLayoutFlags(cmd.Flags())
	registerLayoutCompletions(cmd)
	registerFormatCompletion(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes outputs.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	p := newProgress(c.Logger)
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	p.done(fmt.Sprintf("Loaded %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	layoutPath, base := layoutOutputPaths(input, output)
	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		path := base + pipeline.Extension(format)
		if format == pipeline.FormatJSON {
			path = layoutPath
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Layout complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printSolver(result.Layout)
	printNewline()
	printNextStep("Render", appName+" render "+layoutPath)

	return nil
}

// layoutOutputPaths returns the layout JSON path and the base path for
// rendered artifacts.
func layoutOutputPaths(input, output string) (layoutPath, base string) {
	if output == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		return base + ".layout.json", base
	}
	return output, trimLayoutExt(output)
}

// trimLayoutExt strips ".json" and ".layout" suffixes, so that
// "g.layout.json" becomes "g".
func trimLayoutExt(path string) string {
	path = strings.TrimSuffix(path, ".json")
	return strings.TrimSuffix(path, ".layout")
}

// parseFormats splits a comma-separated format list, using def when empty.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
