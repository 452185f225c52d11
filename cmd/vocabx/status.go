package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/pipeline"
	"github.com/spf13/cobra"
)

const maxListedFailures = 20

type statusOptions struct {
	configFile string
	checkpoint string
	backup     string
}

func newStatusCmd() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status <catalog.json>",
		Short: "Show checkpoint progress and failed records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0], &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML config file with the catalog schema")
	cmd.Flags().StringVar(&opts.checkpoint, "checkpoint", "", "Checkpoint file (default: <catalog>_progress.json)")
	cmd.Flags().StringVar(&opts.backup, "backup", "", "Backup file (default: <catalog>.backup)")
	return cmd
}

func runStatus(cmd *cobra.Command, catalogPath string, opts *statusOptions) error {
	schema, err := loadSchema(cmd, opts.configFile)
	if err != nil {
		return err
	}
	cfg, _ := pipeline.Config{
		CatalogPath:    catalogPath,
		Schema:         schema,
		CheckpointPath: opts.checkpoint,
		BackupPath:     opts.backup,
	}.Normalize()

	rep, err := pipeline.Inspect(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog: %s (%d records)\n", catalogPath, rep.Total)
	pct := 100.0
	if rep.Total > 0 {
		pct = float64(rep.Completed) * 100 / float64(rep.Total)
	}
	fmt.Fprintf(out, "Checkpoint: %s (%d/%d, %.1f%%)\n", cfg.CheckpointPath, rep.Completed, rep.Total, pct)
	if rep.BackupExists {
		fmt.Fprintf(out, "Backup: %s\n", cfg.BackupPath)
	} else {
		fmt.Fprintln(out, "Backup: none")
	}

	fmt.Fprintf(out, "Failed: %d", len(rep.Failed))
	if len(rep.Failed) > 0 {
		shown := rep.Failed[:min(len(rep.Failed), maxListedFailures)]
		ids := make([]string, len(shown))
		for i, idx := range shown {
			ids[i] = fmt.Sprint(idx)
		}
		fmt.Fprintf(out, " [%s", strings.Join(ids, ", "))
		if len(rep.Failed) > maxListedFailures {
			fmt.Fprintf(out, ", ... %d more", len(rep.Failed)-maxListedFailures)
		}
		fmt.Fprint(out, "]")
	}
	fmt.Fprintln(out)

	switch {
	case !rep.Complete():
		fmt.Fprintln(out, "State: in progress (run enhance to resume)")
	case rep.UpToDate:
		fmt.Fprintln(out, "State: complete, published")
	default:
		fmt.Fprintln(out, "State: complete, not yet published (run enhance to publish)")
	}
	return nil
}
