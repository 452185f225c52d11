package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oukeidos/vocabx/internal/pipeline"
	"github.com/spf13/cobra"
)

func newEnhanceCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "enhance <catalog.json>",
		Short: "Translate every catalog record, resuming from the checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("catalog file is required")
			}
			return runEnhance(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addProviderFlags(cmd, &opts)
	addBatchFlags(cmd, &opts)
	return cmd
}

func runEnhance(cmd *cobra.Command, args []string, opts *runOptions) error {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Warning: expected 1 argument but got %d. Using catalog: %s\n", len(args), args[0])
	}
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

	result, err := pipeline.RunEnhancement(ctx, opts.pipelineConfig(args[0]), tr)
	if err != nil {
		return err
	}
	printEnhanceSummary(cmd.OutOrStdout(), result)
	return nil
}

func printEnhanceSummary(w io.Writer, r pipeline.EnhancementResult) {
	fmt.Fprintln(w, "\n--- Run Summary ---")
	fmt.Fprintf(w, "Status: %s\n", r.Status)
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Records: %d total, %d resumed, %d processed, %d failed\n", r.Total, r.Resumed, r.Processed, r.Failed)
	fmt.Fprintf(w, "Time: %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Checkpoint: %s\n", r.CheckpointPath)
	switch {
	case r.Published:
		fmt.Fprintf(w, "Output: %s\n", r.OutputPath)
	case r.Status == pipeline.StatusInterrupted:
		fmt.Fprintln(w, "Output: unchanged (run again to resume)")
	}
	if r.Failed > 0 {
		fmt.Fprintln(w, "Some records have no translation; run `vocabx repair` to retry them.")
	}
}
