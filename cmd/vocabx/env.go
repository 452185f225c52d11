package main

import (
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/auth"
	"github.com/spf13/cobra"
)

type envOptions struct {
	service string
}

func newEnvCmd() *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage API keys in OS Keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, &opts)
		},
	}

	cmd.SetUsageTemplate(envUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.service, "service", "gemini", "Service to manage ("+strings.Join(auth.ServiceIDs(), ", ")+")")

	cmd.AddCommand(
		newEnvSetupCmd(&opts),
		newEnvDeleteCmd(&opts),
		newEnvStatusCmd(&opts),
	)
	return cmd
}

func newEnvSetupCmd(opts *envOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save API key to keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvSetup(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvDeleteCmd(opts *envOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete key from keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvDelete(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvStatusCmd(opts *envOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show key status (default if no action given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runEnvSetup(cmd *cobra.Command, opts *envOptions) error {
	svc, err := auth.Lookup(opts.service)
	if err != nil {
		return err
	}
	promptKey, err := promptForKey(fmt.Sprintf("%s API Key: ", svc.DisplayName))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key := strings.TrimSpace(promptKey)
	if key == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := auth.SaveKey(svc.ID, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", svc.ID)
	return nil
}

func runEnvDelete(cmd *cobra.Command, opts *envOptions) error {
	svc, err := auth.Lookup(opts.service)
	if err != nil {
		return err
	}
	if err := auth.DeleteKey(svc.ID); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", svc.ID)
	return nil
}

func runEnvStatus(cmd *cobra.Command, opts *envOptions) error {
	svc, err := auth.Lookup(opts.service)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if getStatus(svc.ID) {
		fmt.Fprintf(out, "%s API Key: Found (source=Keychain)\n", svc.ID)
		return nil
	}
	if envKey, ok := getEnvKey(svc.ID); ok && envKey != "" {
		fmt.Fprintf(out, "%s API Key: Found (source=Environment Variable %s; disabled by default, use --allow-env)\n", svc.ID, svc.EnvVar)
		return nil
	}
	if svc.Optional {
		fmt.Fprintf(out, "%s API Key: Not Found (optional for this service)\n", svc.ID)
		return nil
	}
	fmt.Fprintf(out, "%s API Key: Not Found (keychain empty, env not set)\n", svc.ID)
	return nil
}
