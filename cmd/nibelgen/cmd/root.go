// Package cmd implements the nibelgen commands.
//
// The root command loads the module configuration and dispatches to
// subcommands (generate, check, watch, version).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/nibel/cmd/nibelgen/internal/config"
	"github.com/go-drift/nibel/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	verbose bool
	dev     bool
	rootDir string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nibelgen",
	Short: "nibelgen - navigation entries for composables and fragments",
	Long: `nibelgen reads //nibel: directives from the packages of a Go module and
writes the entry wrappers, factories and discovery files the nibel runtime
navigates with.

Use "nibelgen <command> --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if dev {
			cfg = zap.NewDevelopmentConfig()
		}
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		errors.SetHandler(errors.NewLogHandler(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dev, "dev", false, "human-readable log output")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", "", "module root (default: nearest go.mod)")
}

// RegisterCommand adds a subcommand to the CLI.
func RegisterCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfig finds the module root and resolves its configuration.
func resolveConfig() (*config.Resolved, error) {
	dir := rootDir
	if dir == "" {
		var err error
		dir, err = config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
	}
	res, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved configuration",
		zap.String("root", res.Root),
		zap.String("module", res.ModulePath),
		zap.String("source", res.Source),
		zap.Strings("patterns", res.Patterns),
	)
	return res, nil
}
