package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tokencraft/internal/config"
	"github.com/dotcommander/tokencraft/internal/output"
	"github.com/dotcommander/tokencraft/internal/pipeline"
	"github.com/dotcommander/tokencraft/internal/profile"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Run a full scoring pass over your usage data",
	Long: `Loads history.jsonl and stats-cache.json from the Claude data directory,
scores all ten categories with rank-adjusted difficulty, applies streak,
combo, and time bonuses, unlocks achievements, and updates your profile.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScore(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

// formatter renders a pipeline outcome.
type formatter interface {
	Format(*pipeline.Outcome) error
}

func runScore() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := profile.NewFileRepository(cfg.ProfilePath, cfg.UserEmail)
	runner := pipeline.NewRunner(repo, cfg.Root)
	outcome, err := runner.Run()
	if err != nil {
		return err
	}

	return formatterFor(cfg).Format(outcome)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, err
	}
	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if quiet {
		cfg.Quiet = true
	}
	if verbose {
		cfg.Verbose = true
	}
	if outputFormat != "" {
		cfg.Format = outputFormat
	}
	return cfg, nil
}

func formatterFor(cfg *config.Config) formatter {
	switch cfg.Format {
	case "json":
		return output.NewJSONFormatter(os.Stdout)
	case "yaml":
		return output.NewYAMLFormatter(os.Stdout)
	default:
		return output.NewConsoleFormatter(os.Stdout, cfg.Quiet, cfg.Verbose)
	}
}
