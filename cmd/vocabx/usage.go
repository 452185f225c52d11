package main

// usageBody lists subcommands and flags; each template only differs in the
// usage lines printed above it.
const usageBody = `
{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}
{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

const subcommandUsageTemplate = `Usage:
  {{.UseLine}}
{{if .HasAvailableSubCommands}}  {{.CommandPath}} [command]
{{end}}` + usageBody

const rootUsageTemplate = `Usage:
  vocabx <catalog.json> [flags]
  vocabx [command]
` + usageBody

const envUsageTemplate = `Usage:
  {{.CommandPath}} [status|setup|delete] --service <name>
` + usageBody
