package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/export"
	"github.com/oukeidos/vocabx/internal/files"
	"github.com/oukeidos/vocabx/internal/language"
	"github.com/oukeidos/vocabx/internal/prompt"
	"github.com/spf13/cobra"
)

var confirmOverwrite = func(path string, force bool) (bool, error) {
	return prompt.DefaultConfirmer().ConfirmOverwrite(path, force)
}

type exportOptions struct {
	configFile   string
	yes          bool
	allowPartial bool
	language     string
	constName    string
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <catalog.json> [output.js]",
		Short: "Write the enhanced catalog as a JavaScript data file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML config file with the catalog schema")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	cmd.Flags().BoolVar(&opts.allowPartial, "allow-partial", false, "Export even if some records have no translation")
	cmd.Flags().StringVar(&opts.language, "source", "it", "Source language code used in the file header")
	cmd.Flags().StringVar(&opts.constName, "const", export.DefaultConstName, "Name of the JavaScript constant")
	return cmd
}

func defaultExportPath(catalogPath string) string {
	return strings.TrimSuffix(catalogPath, filepath.Ext(catalogPath)) + ".js"
}

func runExport(cmd *cobra.Command, args []string, opts *exportOptions) error {
	catalogPath := args[0]
	outPath := defaultExportPath(catalogPath)
	if len(args) > 1 {
		outPath = args[1]
	}

	schema, err := loadSchema(cmd, opts.configFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	entries, err := catalog.Decode(data, schema)
	if err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", catalogPath, err)
	}
	if failed := catalog.FailedIndices(entries); len(failed) > 0 && !opts.allowPartial {
		return fmt.Errorf("%d of %d records have no translation (first: %d); run repair or pass --allow-partial", len(failed), len(entries), failed[0])
	}

	lang, ok := language.GetLanguage(opts.language)
	if !ok {
		return fmt.Errorf("unsupported language: %s", opts.language)
	}

	outPath, err = chooseOutputPath(outPath, opts.yes)
	if err != nil {
		return err
	}
	n, err := export.WriteFile(outPath, entries, export.Options{
		Schema:    schema,
		Language:  lang.Name,
		ConstName: opts.constName,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Updated %s with %d entries\n", outPath, len(entries))
	fmt.Fprintf(out, "File size: %s\n", humanize.Bytes(uint64(n)))
	return nil
}

// chooseOutputPath returns path when it is free or the user agrees to
// overwrite it, and a fresh sibling name otherwise.
func chooseOutputPath(path string, force bool) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path, nil
	} else if err != nil {
		return "", fmt.Errorf("failed to check output path: %w", err)
	}

	ok, err := confirmOverwrite(path, force)
	if err == nil && ok {
		return path, nil
	}
	alt, _, safeErr := files.SafePath(path)
	if safeErr != nil {
		return "", safeErr
	}
	fmt.Fprintf(os.Stderr, "Keeping %s, writing to %s instead\n", path, alt)
	return alt, nil
}
