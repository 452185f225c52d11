package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/libretranslate"
	"github.com/oukeidos/vocabx/internal/logger"
	"github.com/oukeidos/vocabx/internal/provider"
	"github.com/spf13/cobra"
)

var listLibreLanguages = func(ctx context.Context, endpoint, apiKey string) ([]libretranslate.Language, error) {
	return libretranslate.NewClient(endpoint, apiKey).Languages(ctx)
}

func newProbeCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "probe <word>",
		Short: "Translate one word through the language chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, strings.Join(args, " "), &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addProviderFlags(cmd, &opts)
	return cmd
}

func runProbe(cmd *cobra.Command, word string, opts *runOptions) error {
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

	out := cmd.OutOrStdout()
	if strings.EqualFold(opts.provider, provider.LibreTranslate) {
		key, _, _ := resolveAPIKey(provider.LibreTranslate, opts.allowEnv, opts.envOnly)
		langs, err := listLibreLanguages(ctx, opts.endpoint, key)
		if err != nil {
			logger.Warn("Could not list server languages", "endpoint", opts.endpoint, "error", err)
		} else {
			for _, hop := range [][2]string{{opts.source, opts.via}, {opts.via, opts.target}} {
				status := "available"
				if !libretranslate.Supports(langs, hop[0], hop[1]) {
					status = "NOT available on this server"
				}
				fmt.Fprintf(out, "Model %s -> %s: %s\n", hop[0], hop[1], status)
			}
		}
	}

	tr, err := buildTranslator(ctx, opts)
	if err != nil {
		return err
	}
	primary, err := tr.Translate(ctx, word, opts.source, opts.via)
	if err != nil {
		return fmt.Errorf("%s -> %s: %w", opts.source, opts.via, err)
	}
	fmt.Fprintf(out, "%s -> %s: %s -> %s\n", strings.ToUpper(opts.source), strings.ToUpper(opts.via), word, primary)

	secondary, err := tr.Translate(ctx, primary, opts.via, opts.target)
	if err != nil {
		return fmt.Errorf("%s -> %s: %w", opts.via, opts.target, err)
	}
	fmt.Fprintf(out, "%s -> %s: %s -> %s\n", strings.ToUpper(opts.via), strings.ToUpper(opts.target), primary, secondary)
	fmt.Fprintf(out, "%s -> %s (via %s): %s -> %s\n", strings.ToUpper(opts.source), strings.ToUpper(opts.target), strings.ToUpper(opts.via), word, secondary)
	return nil
}
