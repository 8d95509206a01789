package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "signals",
	Short: "Sustainability Signals - disclosure scoring and ESG entity extraction",
	Long: `Sustainability Signals analyzes corporate sustainability reports.

Given a report's page-tagged text it produces two artifacts:
- a Disclosure Quality score: four transparent subscores built from
  pattern detectors, with verbatim evidence quotes and recommendations
- structured ESG entities: emissions figures, targets, policies and
  metrics extracted by an LLM and grounded back to their source pages

Scoring measures disclosure practice, not environmental performance.
A high score means thorough, assured, well-structured reporting; it
says nothing about whether the numbers themselves are good.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = zap.L().Sync() }()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("signals v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.signals/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.signals")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SIGNALS_*
	viper.SetEnvPrefix("SIGNALS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// initLogger installs the global zap logger. Verbose runs get the
// development encoder at debug level; everything else logs warnings and
// up so pipeline degradation stays visible without drowning output.
func initLogger() {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		return
	}
	zap.ReplaceGlobals(logger)
}

// loadConfig layers viper-provided values over the built-in defaults
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	setString := func(dst *string, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setInt := func(dst *int, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetDuration(key)
		}
	}

	setString(&cfg.Classify.URL, "classify.url")
	setString(&cfg.Classify.APIKey, "classify.api_key")
	setInt(&cfg.Classify.BatchSize, "classify.batch_size")
	setInt(&cfg.Classify.Concurrency, "classify.concurrency")
	setDuration(&cfg.Classify.Timeout, "classify.timeout")
	if viper.IsSet("classify.min_confidence") {
		cfg.Classify.MinConfidence = viper.GetFloat64("classify.min_confidence")
	}

	setString(&cfg.LLM.Provider, "llm.provider")
	setString(&cfg.LLM.Model, "llm.model")
	setString(&cfg.LLM.APIKey, "llm.api_key")
	setString(&cfg.LLM.BaseURL, "llm.base_url")
	setDuration(&cfg.LLM.Timeout, "llm.timeout")
	setInt(&cfg.LLM.MaxTokens, "llm.max_tokens")

	setString(&cfg.Convert.URL, "convert.url")
	setString(&cfg.Convert.APIKey, "convert.api_key")
	setDuration(&cfg.Convert.Timeout, "convert.timeout")

	setInt(&cfg.Chunk.MaxChars, "chunk.max_chars")
	setInt(&cfg.Chunk.Overlap, "chunk.overlap")

	setInt(&cfg.Extract.Concurrency, "extract.concurrency")
	setInt(&cfg.Extract.MaxPerChunk, "extract.max_per_chunk")
	setInt(&cfg.Extract.MaxTotal, "extract.max_total")

	setString(&cfg.Store.Dir, "store.dir")
	if viper.IsSet("store.enabled") {
		cfg.Store.Enabled = viper.GetBool("store.enabled")
	}
	setDuration(&cfg.Store.MemoryTTL, "store.memory_ttl")

	setInt(&cfg.Concurrency.BatchWorkers, "concurrency.batch_workers")

	cfg.Output.Verbose = verbose
	return cfg
}

// resolveLLMEnv fills provider API keys from conventional env variables
func resolveLLMEnv(cfg *model.Config) error {
	if cfg.LLM.Provider == "" || cfg.LLM.APIKey != "" {
		return nil
	}
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
