package main

import (
	"fmt"

	"github.com/oukeidos/vocabx/internal/language"
	"github.com/oukeidos/vocabx/internal/provider"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported languages and providers",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Providers:")
			for _, name := range provider.Names() {
				note := ""
				if !provider.NeedsKey(name) {
					note = " (no API key required)"
				}
				fmt.Fprintf(out, "  %s%s\n", name, note)
			}
			fmt.Fprintln(out, "\nSupported Languages:")
			for _, l := range language.GetSupportedLanguages() {
				fmt.Fprintf(out, "  %-35s [%s]\n", l.Name, l.Code)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
