package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldlab/corpusgraph/pkg/corpus"
)

// filtersCommand creates the filters command, which describes the filter
// surface of a payload: its categories, languages, and limit bounds.
func (c *CLI) filtersCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "filters [records.json]",
		Short: "Show the categories and languages present in a payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := corpus.ReadRawFile(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			meta, err := runner.Filters(cmd.Context(), raw)
			if err != nil {
				return err
			}

			printKeyValue("categories", strings.Join(meta.Categories, ", "))
			languages := strings.Join(meta.Languages, ", ")
			if languages == "" {
				languages = StyleDim.Render("none")
			}
			printKeyValue("languages", languages)
			printKeyValue("limit", fmt.Sprintf("%d-%d (default %d)", meta.MinLimit, meta.MaxLimit, meta.Default))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
