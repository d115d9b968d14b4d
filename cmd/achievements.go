package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotcommander/tokencraft/internal/achievement"
	"github.com/dotcommander/tokencraft/internal/profile"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and unlock progress",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAchievements(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := profile.NewFileRepository(cfg.ProfilePath, cfg.UserEmail)
	p, _, err := repo.Load()
	if err != nil {
		return err
	}

	registry := achievement.NewRegistry(p.Achievements)
	stats := registry.GetStats()

	bold := lipgloss.NewStyle().Bold(true)
	locked := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unlocked := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	fmt.Println(bold.Render("Achievements"))
	fmt.Printf("%d / %d unlocked (%.0f%%), %d of %d points earned\n\n",
		stats.UnlockedCount, stats.TotalCount, stats.CompletionPct,
		stats.TotalPointsEarned, stats.TotalPointsPossible)

	category := ""
	for _, a := range achievement.Catalog {
		if a.Category != category {
			category = a.Category
			fmt.Println(bold.Render(category))
		}
		if registry.IsUnlocked(a.ID) {
			fmt.Printf("  %s %s - %s (%d pts)\n", unlocked.Render("★"), a.Name, a.Description, a.Points)
		} else {
			fmt.Printf("  %s\n", locked.Render(fmt.Sprintf("☆ %s - %s (%d pts)", a.Name, a.Description, a.Points)))
		}
	}
	return nil
}
