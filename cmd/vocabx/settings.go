package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/enhancer"
	"github.com/oukeidos/vocabx/internal/libretranslate"
	"github.com/oukeidos/vocabx/internal/pipeline"
	"github.com/oukeidos/vocabx/internal/provider"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "VOCABX"

// runOptions holds the flags shared by enhance, repair and probe.
type runOptions struct {
	configFile string
	envFile    string

	provider string
	endpoint string
	model    string
	retries  int
	timeout  time.Duration
	cache    string

	source string
	via    string
	target string
	schema catalog.Schema

	batchSize  int
	workers    int
	pause      time.Duration
	checkpoint string
	backup     string

	allowEnv bool
	envOnly  bool
	logFile  string
	debug    bool
}

func addProviderFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML config file (default: ./.vocabx.yaml or ~/.vocabx.yaml)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from a .env file")
	cmd.Flags().StringVar(&opts.provider, "provider", provider.LibreTranslate, "Translation provider ("+strings.Join(provider.Names(), ", ")+")")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", libretranslate.DefaultEndpoint, "LibreTranslate server URL")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name for gemini/openai (default depends on provider)")
	cmd.Flags().IntVar(&opts.retries, "retries", 3, "Attempts per translation call (max 10)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", enhancer.DefaultCallTimeout, "Timeout for a single translation call")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "SQLite file memoizing translations across runs (empty: off)")
	cmd.Flags().StringVar(&opts.source, "source", pipeline.DefaultSource, "Source language code")
	cmd.Flags().StringVar(&opts.via, "via", pipeline.DefaultVia, "Intermediate language code")
	cmd.Flags().StringVar(&opts.target, "target", pipeline.DefaultTarget, "Final language code")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API keys from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for API keys")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func addBatchFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", pipeline.DefaultBatchSize, fmt.Sprintf("Records per checkpointed batch (max %d)", pipeline.MaxBatchSize))
	cmd.Flags().IntVar(&opts.workers, "workers", enhancer.DefaultWorkers(), fmt.Sprintf("Concurrent records per batch (1-%d)", enhancer.MaxWorkers))
	cmd.Flags().DurationVar(&opts.pause, "pause", 0, "Pause between batches")
	cmd.Flags().StringVar(&opts.checkpoint, "checkpoint", "", "Checkpoint file (default: <catalog>_progress.json)")
	cmd.Flags().StringVar(&opts.backup, "backup", "", "Backup file (default: <catalog>.backup)")
}

// load layers the .env file, VOCABX_* variables and the config file under
// the command line flags. Explicit flags always win.
func (o *runOptions) load(cmd *cobra.Command) error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
	}
	v, err := loadSettings(cmd, o.configFile)
	if err != nil {
		return err
	}

	o.provider = v.GetString("provider")
	o.endpoint = v.GetString("endpoint")
	o.model = v.GetString("model")
	o.retries = v.GetInt("retries")
	o.timeout = v.GetDuration("timeout")
	o.cache = v.GetString("cache")
	o.source = v.GetString("source")
	o.via = v.GetString("via")
	o.target = v.GetString("target")
	o.schema = schemaSettings(v)
	o.allowEnv = v.GetBool("allow-env")
	o.envOnly = v.GetBool("env-only")
	o.logFile = v.GetString("log-file")
	o.debug = v.GetBool("debug")
	if cmd.Flags().Lookup("batch-size") != nil {
		o.batchSize = v.GetInt("batch-size")
		o.workers = v.GetInt("workers")
		o.pause = v.GetDuration("pause")
		o.checkpoint = v.GetString("checkpoint")
		o.backup = v.GetString("backup")
	}
	return nil
}

func loadSettings(cmd *cobra.Command, configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(".vocabx")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// schemaSettings reads the catalog field names from the "schema" section of
// the config (or VOCABX_SCHEMA_* variables), falling back to the default
// layout key by key.
func schemaSettings(v *viper.Viper) catalog.Schema {
	def := catalog.DefaultSchema()
	get := func(key, fallback string) string {
		if s := strings.TrimSpace(v.GetString("schema." + key)); s != "" {
			return s
		}
		return fallback
	}
	return catalog.Schema{
		Source:     get("source", def.Source),
		InputGloss: get("input-gloss", def.InputGloss),
		Gloss:      get("gloss", def.Gloss),
		Primary:    get("primary", def.Primary),
		Secondary:  get("secondary", def.Secondary),
		Frequency:  get("frequency", def.Frequency),
		Rank:       get("rank", def.Rank),
	}
}

// loadSchema resolves the catalog layout for commands that only need the
// schema from the settings.
func loadSchema(cmd *cobra.Command, configFile string) (catalog.Schema, error) {
	v, err := loadSettings(cmd, configFile)
	if err != nil {
		return catalog.Schema{}, err
	}
	schema := schemaSettings(v)
	if err := schema.Validate(); err != nil {
		return catalog.Schema{}, fmt.Errorf("invalid schema settings: %w", err)
	}
	return schema, nil
}

func (o *runOptions) providerOptions(apiKey string) provider.Options {
	return provider.Options{
		Provider: o.provider,
		Endpoint: o.endpoint,
		Model:    o.model,
		APIKey:   apiKey,
		Retries:  o.retries,
		MemoPath: o.cache,
	}
}

func (o *runOptions) pipelineConfig(catalogPath string) pipeline.Config {
	return pipeline.Config{
		CatalogPath:      catalogPath,
		Schema:           o.schema,
		BackupPath:       o.backup,
		CheckpointPath:   o.checkpoint,
		SourceLang:       o.source,
		IntermediateLang: o.via,
		TargetLang:       o.target,
		BatchSize:        o.batchSize,
		Workers:          o.workers,
		CallTimeout:      o.timeout,
		BatchPause:       o.pause,
	}
}
