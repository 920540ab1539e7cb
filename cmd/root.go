// Package cmd implements the purse CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/purse/internal/cli"
	"github.com/theirongolddev/purse/internal/config"
	"github.com/theirongolddev/purse/internal/session"
	"github.com/theirongolddev/purse/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataFile string
	flagBackend  string
	flagQuiet    bool
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:          "purse",
	Short:        "Personal finance tracker",
	Long:         "Track income, expenses and budgets per category, and transfer funds between accounts.",
	SilenceUsage: true,
	RunE:         runSession,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data-file", "f", "", "Account file (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Storage backend: toml or sqlite (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress banner and diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every operation to stderr")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagDataFile != "" {
		cfg.Storage.DataFile = flagDataFile
	}
	cli.SetColor(cfg.Appearance.Color)
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	level := config.LogLevel(cfg.Log.Level)
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(cfg config.Config) (store.Store, error) {
	return store.Open(cfg.Storage.Backend, config.DataPath(cfg))
}

func runSession(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	logger.Debug("opened store", "backend", cfg.Storage.Backend, "path", st.Path())

	if !flagQuiet {
		fmt.Println()
		fmt.Println(cli.RenderTitle("PURSE"))
	}

	dir, err := session.Load(st, os.Stdout)
	if err != nil {
		logger.Warn("starting with an empty directory", "path", st.Path(), "err", err)
	}

	s := session.New(dir, st, os.Stdin, os.Stdout, session.WithLogger(logger))
	return s.Run()
}
