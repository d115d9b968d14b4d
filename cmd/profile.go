package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/tokencraft/internal/profile"
	"github.com/dotcommander/tokencraft/internal/rank"
	"github.com/dotcommander/tokencraft/internal/timemech"
	"github.com/dotcommander/tokencraft/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your current profile",
	Long: `Displays the stored profile: score, rank progress, per-category scores,
streaks, season status, and achievement count. Does not run scoring.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProfile(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := profile.NewFileRepository(cfg.ProfilePath, cfg.UserEmail)
	p, created, err := repo.Load()
	if err != nil {
		return err
	}
	if created {
		fmt.Println("No profile yet. Run 'tokencraft score' to create one.")
		return nil
	}

	if cfg.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	bold := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	prog := rank.ForScore(int(p.CurrentScore))
	fmt.Println(bold.Render("Token-Craft Profile"))
	if p.UserEmail != "" {
		fmt.Println(dim.Render(p.UserEmail))
	}
	fmt.Printf("\n%s (rank %d) - %.1f points\n", prog.Name, prog.Level, p.CurrentScore)
	fmt.Printf("  %s\n", prog.Description)
	fmt.Printf("  %d/%d through this rank (%.0f%%)\n", prog.ProgressInRank, prog.RankRange, prog.ProgressPct)
	if next := rank.Next(int(p.CurrentScore)); next != nil {
		fmt.Printf("  %d points to %s\n", next.PointsNeeded, next.Name)
	}

	fmt.Println()
	for _, name := range types.Categories {
		fmt.Printf("  %-22s %6.1f\n", strings.ReplaceAll(name, "_", " "), p.Scores[name])
	}

	fmt.Println()
	fmt.Printf("  Streak: %d current, %d best\n", p.StreakInfo.Current.Length, p.StreakInfo.Best.Length)
	season := timemech.SeasonalReset(nowFunc(), p.SeasonalInfo.LastReset)
	fmt.Printf("  Season: %.1f this season, %.1f lifetime, %d days until reset\n",
		p.SeasonalInfo.CurrentSeasonScore, p.SeasonalInfo.LifetimeScore, season.DaysUntilReset)
	fmt.Printf("  Achievements: %d unlocked\n", len(p.Achievements))
	fmt.Printf("  Sessions: %d (%d messages, avg %.0f tokens/session)\n",
		p.TotalSessions, p.TotalMessages, p.AvgTokensPerSession)
	return nil
}
