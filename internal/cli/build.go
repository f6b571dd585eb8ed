package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
	"github.com/fieldlab/corpusgraph/pkg/export"
	"github.com/fieldlab/corpusgraph/pkg/pipeline"
)

// buildCommand creates the build command: raw records in, positioned graph out.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		mode       string
		categories string
		language   string
		limit      int
		format     string
		output     string
		noCache    bool
		refresh    bool
		skipRefine bool
	)

	cmd := &cobra.Command{
		Use:   "build [records.json]",
		Short: "Build a positioned graph from raw relationship records",
		Long: `Build a positioned graph from raw relationship records.

The build command validates the records (dropping duplicates and dangling
edges), resolves node and edge styling, places nodes with the banded or
radial layout for the chosen mode, and refines positions with a
force-directed simulation.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := corpus.ReadRawFile(args[0])
			if err != nil {
				return err
			}
			corpus.ResolveLabels(raw)
			corpus.ApplyPalette(raw)

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{
				Mode:       mode,
				Categories: splitList(categories),
				Language:   language,
				Limit:      limit,
				Refresh:    refresh,
				SkipRefine: skipRefine,
				Logger:     c.Logger,
			}

			spinner := newSpinnerWithContext(cmd.Context(), "building graph")
			spinner.Start()
			result, err := runner.Execute(cmd.Context(), raw, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			data, err := export.Export(cmd.Context(), result.Graph, format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Built %s graph", result.Mode)
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
			printDropped(result.Stats)
			printFile(output)
			if format == export.FormatJSON {
				printNextStep("Render it", "corpusgraph build "+args[0]+" -f svg -o graph.svg")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "layout mode: overview (default), focused")
	cmd.Flags().StringVar(&categories, "categories", "", "keep only these categories (comma-separated)")
	cmd.Flags().StringVar(&language, "language", "", "keep only records of this language")
	cmd.Flags().IntVar(&limit, "limit", 0, "per-category record limit (10-1000, default 200)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json (default), dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache for this run")
	cmd.Flags().BoolVar(&skipRefine, "skip-refine", false, "stop after initial placement")

	return cmd
}

// printDropped reports record-level drops from a build, if any.
func printDropped(stats corpus.Stats) {
	var parts []string
	if stats.DuplicateNodes > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate nodes", stats.DuplicateNodes))
	}
	if stats.DuplicateEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate edges", stats.DuplicateEdges))
	}
	if stats.DanglingEdges > 0 {
		parts = append(parts, fmt.Sprintf("%d dangling edges", stats.DanglingEdges))
	}
	if stats.NodesRejected > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed nodes", stats.NodesRejected))
	}
	if stats.EdgesRejected > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed edges", stats.EdgesRejected))
	}
	if len(parts) > 0 {
		printWarning("Dropped %s", strings.Join(parts, ", "))
	}
}
