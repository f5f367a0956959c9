package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"thanos/internal/catalog"
	"thanos/internal/config"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Files:         %d (%d organized, %d pending)\n",
					stats.TotalFiles, stats.OrganizedFiles, stats.UnorganizedFiles)
				fmt.Fprintf(out, "Storage:       %s\n", formatBytes(stats.TotalBytes))
				fmt.Fprintf(out, "Organizations: %d\n", stats.Organizations)

				if len(stats.ByCategory) == 0 {
					return nil
				}
				categories := make([]string, 0, len(stats.ByCategory))
				for category := range stats.ByCategory {
					categories = append(categories, category)
				}
				sort.Strings(categories)

				rows := make([][]string, 0, len(categories))
				for _, category := range categories {
					rows = append(rows, []string{category, fmt.Sprintf("%d", stats.ByCategory[category])})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Category", "Files"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
