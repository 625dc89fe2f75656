// Package commands implements the CLI commands for cleansetext.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alejandroruanova/cleansetext/internal/core/services/cleanse"
	"github.com/alejandroruanova/cleansetext/internal/core/services/lexicon"
	"github.com/alejandroruanova/cleansetext/internal/pkg/config"
	"github.com/alejandroruanova/cleansetext/internal/pkg/logger"
)

// NewRootCommand builds the command tree. Each call returns an independent tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cleansetext",
		Short: "Configurable token cleaning pipelines for noisy text",
		Long: `cleansetext tokenizes text and runs it through an ordered pipeline of
cleaning steps: punctuation and emoji removal, URL and username masking,
stopword removal, stemming and more.

Examples:
  # Clean a tweet with the default preset
  cleansetext clean "@Mary check google.com 🎉"

  # Clean the text column of a CSV file and show every step
  cleansetext clean --file tweets.csv --field text --diffs

  # Use a custom pipeline from a config file
  cleansetext clean --config pipeline.yaml --file corpus.txt --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default $HOME/.cleansetext.yaml or ./.cleansetext.yaml)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().String("format", "", "output format: text, json, yaml")

	root.AddCommand(newCleanCommand(), newStepsCommand(), newPresetsCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads configuration and applies the persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("format") {
		cfg.OutputFormat, _ = cmd.Flags().GetString("format")
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	// per-step logs are debug output; keep stderr quiet unless asked
	level := cfg.LogLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	} else if level == "" {
		level = "warn"
	}
	log := logger.InitializeWithLevel(cfg.IsProduction(), level, cmd.ErrOrStderr())
	cfg.LogConfig(log)

	return cfg, log, nil
}

// stepOptions resolves the lexicon provider and default language for step factories.
func stepOptions(cfg *config.Config) (cleanse.Options, error) {
	opts := cleanse.Options{Language: cfg.Language}
	if cfg.LexiconDir == "" {
		return opts, nil
	}

	provider, err := lexicon.NewDirProvider(cfg.LexiconDir)
	if err != nil {
		return cleanse.Options{}, err
	}
	opts.Lexicon = provider
	return opts, nil
}
