package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/purse/internal/config"
	"github.com/theirongolddev/purse/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagAccessible bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&flagAccessible, "accessible", false, "Plain line-by-line prompts instead of the form UI")
	rootCmd.AddCommand(setupCmd)
}

// setupAnswers holds the values edited by the setup form.
type setupAnswers struct {
	Backend  string
	DataFile string
	Color    bool
	LogLevel string
}

func answersFrom(cfg config.Config) setupAnswers {
	return setupAnswers{
		Backend:  cfg.Storage.Backend,
		DataFile: cfg.Storage.DataFile,
		Color:    cfg.Appearance.Color,
		LogLevel: config.LogLevel(cfg.Log.Level).String(),
	}
}

func (a setupAnswers) apply(cfg config.Config) config.Config {
	cfg.Storage.Backend = a.Backend
	cfg.Storage.DataFile = strings.TrimSpace(a.DataFile)
	cfg.Appearance.Color = a.Color
	cfg.Log.Level = strings.ToLower(a.LogLevel)
	return cfg
}

func newSetupForm(a *setupAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage backend").
				Description("Where accounts are saved between runs.").
				Options(
					huh.NewOption("TOML snapshot (plain text)", store.BackendTOML),
					huh.NewOption("SQLite database", store.BackendSQLite),
				).
				Value(&a.Backend),
			huh.NewInput().
				Title("Data file").
				Description("Leave blank for the default location.").
				Value(&a.DataFile).
				Validate(validateDataFile),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Colored output?").
				Value(&a.Color),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("WARN", "INFO", "DEBUG", "ERROR")...).
				Value(&a.LogLevel),
		),
	)
}

// validateDataFile accepts a blank path or one that is not a directory.
func validateDataFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if fi.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	answers := answersFrom(cfg)
	form := newSetupForm(&answers).WithAccessible(flagAccessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg = answers.apply(cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Accounts will be kept in %s\n", config.DataPath(cfg))
	fmt.Println("  Run `purse setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
