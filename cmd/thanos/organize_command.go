package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/logging"
	"thanos/internal/organize"
	"thanos/internal/services/classifier"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Classify and move every unorganized file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				logger, err := logging.New(logging.Options{
					Level:       "warn",
					Format:      cfg.Logging.Format,
					OutputPaths: []string{"stderr"},
				})
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				svc := classifier.New(cfg.ClassifierLLM(), logger)
				runner := organize.NewRunner(cfg, store, svc, logger)

				summary, err := runner.Run(cmd.Context(), organize.RunOptions{Description: description}, func(event organize.Event) {
					switch event.Status {
					case organize.EventProcessing:
						fmt.Fprintf(out, "[%3d%%] %s\n", event.Progress, event.Message)
					case organize.EventError:
						fmt.Fprintln(out, paint(event.Message, ansiRed, colorize))
					}
				})
				if err != nil {
					return err
				}

				if summary.TotalFiles == 0 {
					fmt.Fprintln(out, "Nothing to organize")
					return nil
				}
				fmt.Fprintln(out, paint(fmt.Sprintf("Organized %d of %d files", summary.FilesProcessed, summary.TotalFiles), ansiGreen, colorize))
				fmt.Fprintf(out, "Run id: %s\n", summary.OrganizationID)
				for _, failure := range summary.Failures {
					fmt.Fprintln(out, paint(fmt.Sprintf("  failed %s: %s", failure.FileID, failure.Reason), ansiRed, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description recorded on the organization run")
	return cmd
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <organization-id>",
		Short: "Revert an organization run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				undoer := organize.NewUndoer(cfg, store, logging.NewNop())
				result, err := undoer.Undo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reverted %d files, removed %d empty folders\n",
					result.FilesReverted, result.FoldersRemoved)
				return nil
			})
		},
	}
}
