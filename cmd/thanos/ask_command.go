package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"thanos/internal/assistant"
	"thanos/internal/logging"
)

func newAskCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the built-in assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rosa := assistant.New(cfg, logging.NewNop())
			resp := rosa.Reply(cmd.Context(), strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), resp.Reply)
			return nil
		},
	}
}
