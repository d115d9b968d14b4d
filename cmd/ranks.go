package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/tokencraft/internal/difficulty"
	"github.com/dotcommander/tokencraft/internal/profile"
	"github.com/dotcommander/tokencraft/internal/rank"
)

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "Show the rank ladder and difficulty curve",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRanks(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ranksCmd)
}

func runRanks() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	currentLevel := 0
	repo := profile.NewFileRepository(cfg.ProfilePath, cfg.UserEmail)
	if p, created, err := repo.Load(); err == nil && !created {
		currentLevel = rank.Level(int(p.CurrentScore))
	}

	bold := lipgloss.NewStyle().Bold(true)
	here := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	fmt.Println(bold.Render("Rank ladder"))
	for _, r := range rank.Ranks {
		line := fmt.Sprintf("  %2d  %-16s %5d-%-5d %s", r.Level, r.Name, r.Min, r.Max, r.Description)
		if r.Level == currentLevel {
			line = here.Render(line + "  <- you")
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println(bold.Render("Difficulty curve"))
	fmt.Println("  rank  tokens/session  harder  cache target  adoption target")
	for _, row := range difficulty.Comparison() {
		fmt.Printf("  %4d  %14d  %5.1f%%  %11.0f%%  %14.0f%%\n",
			row.Rank, row.TokensBaseline, row.DifficultyIncreasePct,
			row.CacheTarget, row.OptimizationTargetPct)
	}
	return nil
}
