package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"thanos/internal/catalog"
	"thanos/internal/config"
)

func newOrganizationsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "List organization runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				orgs, err := store.ListOrganizations(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(orgs) == 0 {
					fmt.Fprintln(out, "No organization runs yet")
					return nil
				}

				rows := make([][]string, 0, len(orgs))
				for _, org := range orgs {
					rows = append(rows, []string{
						org.ID,
						org.Name,
						string(org.Status),
						fmt.Sprintf("%d/%d", org.FilesProcessed, org.TotalFiles),
						yesNo(org.IsUndone),
						org.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Status", "Files", "Undone", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.AddCommand(newOrganizationShowCommand(ctx))
	return cmd
}

func newOrganizationShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <organization-id>",
		Short: "Show one organization run with its file snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				org, err := store.GetOrganization(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if org == nil {
					return fmt.Errorf("organization %s not found", args[0])
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:      %s\n", org.Name)
				if org.Description != "" {
					fmt.Fprintf(out, "About:     %s\n", org.Description)
				}
				fmt.Fprintf(out, "Status:    %s\n", org.Status)
				fmt.Fprintf(out, "Files:     %d/%d\n", org.FilesProcessed, org.TotalFiles)
				fmt.Fprintf(out, "Undone:    %s\n", yesNo(org.IsUndone))
				fmt.Fprintf(out, "Created:   %s\n", org.CreatedAt.Local().Format("2006-01-02 15:04:05"))

				if err := printSnapshot(out, "Before", org.BeforeSnapshot); err != nil {
					return err
				}
				return printSnapshot(out, "After", org.AfterSnapshot)
			})
		},
	}
}

func printSnapshot(out io.Writer, label, encoded string) error {
	snap, err := catalog.DecodeSnapshot(encoded)
	if err != nil {
		return err
	}
	if snap == nil || len(snap.Files) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(snap.Files))
	for _, file := range snap.Files {
		rows = append(rows, []string{file.Name, file.Category, formatBytes(file.Size), file.Path})
	}
	fmt.Fprintf(out, "\n%s:\n", label)
	fmt.Fprintln(out, renderTable(
		[]string{"Name", "Category", "Size", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}
