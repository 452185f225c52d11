package main

import (
	"fmt"
	"time"

	"github.com/oukeidos/vocabx/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "repair <catalog.json>",
		Short: "Retry records left without a translation by a finished run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addProviderFlags(cmd, &opts)
	addBatchFlags(cmd, &opts)
	return cmd
}

func runRepair(cmd *cobra.Command, args []string, opts *runOptions) error {
	if err := opts.load(cmd); err != nil {
		return err
	}
	if err := opts.resolveLanguages(); err != nil {
		return err
	}
	if err := setupLogging(opts); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	tr, err := buildTranslator(ctx, opts)
	if err != nil {
		return err
	}
	result, err := pipeline.RunRepair(ctx, opts.pipelineConfig(args[0]), tr)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- Repair Summary ---")
	fmt.Fprintf(out, "Status: %s\n", result.Status)
	fmt.Fprintf(out, "Records: %d attempted, %d fixed, %d still failed\n", result.Attempted, result.Fixed, result.StillFailed)
	fmt.Fprintf(out, "Time: %s\n", result.Duration.Round(time.Millisecond))
	if result.Status == pipeline.StatusSuccess && result.StillFailed > 0 {
		return fmt.Errorf("%d records still have no translation", result.StillFailed)
	}
	return nil
}
