package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"courier/internal/classify"
	"courier/internal/runner"
)

func newPlanCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <manifest>",
		Short: "Show what a run would transfer without touching the network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			items, err := readManifest(cmd, args[0])
			if err != nil {
				return err
			}

			plans := make([]classify.Plan, 0, len(items))
			for _, item := range items {
				plans = append(plans, classify.Classify(item))
			}
			selected, skipped := runner.Select(plans, cfg.Transfer.MaxItemsPerRun)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlanTable(out, selected, skipped))
			if overflow := len(plans) - len(selected) - len(skipped); overflow > 0 {
				fmt.Fprintf(out, "%d item(s) beyond the per-run cap of %d would wait for the next run\n",
					overflow, cfg.Transfer.MaxItemsPerRun)
			}
			return nil
		},
	}
}
