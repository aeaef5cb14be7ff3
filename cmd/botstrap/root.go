package main

import (
	"fmt"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aretw0/botstrap"
	"github.com/aretw0/botstrap/internal/config"
	"github.com/aretw0/botstrap/internal/platform"
	"github.com/aretw0/botstrap/pkg/core"
)

var (
	verbose    bool
	workDir    string
	configFile string
	logFormat  string
	findRoot   bool

	// cfg is loaded once per invocation in PersistentPreRunE.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "botstrap",
	Short: "Locate, load and validate trading bots by name",
	Long: `botstrap resolves a bot from the registry (schema.json) into its configs,
metadata and directories. Bot artifacts are re-read on every resolution, so
rebuilt bots are picked up without restarting the host process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := workDir
		if findRoot {
			start := dir
			if start == "" {
				start = "."
			}
			root, err := platform.FindRoot(start, "")
			if err != nil {
				return err
			}
			dir = root
		}

		overrides := map[string]any{}
		if verbose {
			overrides["log_level"] = "debug"
		}
		if cmd.Flags().Changed("log-format") {
			overrides["log_format"] = logFormat
		}

		loaded, err := config.Load(cmd.Context(), config.LoadOptions{
			WorkDir:    dir,
			ConfigFile: configFile,
			Overrides:  overrides,
		})
		if err != nil {
			return err
		}
		cfg = loaded

		slog.SetDefault(slog.New(newLogHandler(cfg)))
		if cfg.Source != "" {
			slog.Debug("configuration loaded", "file", cfg.Source)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "C", "", "Work directory holding schema.json (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: botstrap.yaml in the work directory)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&findRoot, "find-root", false, "Search parent directories for schema.json")
}

func newLogHandler(c *config.Config) slog.Handler {
	formatter := charmlog.TextFormatter
	if c.LogFormat == "json" {
		formatter = charmlog.JSONFormatter
	}
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           charmlog.Level(c.Level()),
		Prefix:          config.AppName,
		Formatter:       formatter,
		ReportTimestamp: c.LogLevel == "debug",
	})
}

// resolverOptions maps the loaded configuration onto botstrap options.
func resolverOptions(cmd *cobra.Command) []botstrap.Option {
	return []botstrap.Option{
		botstrap.WithLogger(slog.Default()),
		botstrap.WithDiagnostics(cmd.OutOrStdout()),
		botstrap.WithSchemaFile(cfg.SchemaFile),
		botstrap.WithTokensFile(cfg.TokensFile),
		botstrap.WithStrict(cfg.Strict),
	}
}

func newResolver(cmd *cobra.Command) (*core.Resolver, error) {
	return botstrap.New(cfg.WorkDir, resolverOptions(cmd)...)
}
