// Package output renders scoring outcomes for the terminal and for
// machine-readable formats.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/tokencraft/internal/pipeline"
	"github.com/dotcommander/tokencraft/internal/types"
)

// ConsoleFormatter formats a scoring outcome for console display
type ConsoleFormatter struct {
	out      io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(out io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:      out,
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Format renders the full outcome report.
func (f *ConsoleFormatter) Format(o *pipeline.Outcome) error {
	if f.quiet {
		fmt.Fprintf(f.out, "%.1f %s\n", o.Result.TotalScore, o.Rank.Name)
		return nil
	}

	f.printHeader(o)
	f.printCategories(o)
	f.printBonuses(o)
	f.printAchievements(o)
	f.printRegression(o)
	f.printFooter(o)
	return nil
}

func (f *ConsoleFormatter) printHeader(o *pipeline.Outcome) {
	fmt.Fprintln(f.out, titleStyle.Render("Token-Craft Score Report"))
	if o.Migration != nil {
		fmt.Fprintln(f.out, dimStyle.Render("Profile migrated to schema 3.0"))
		for _, w := range o.Migration.Warnings {
			fmt.Fprintf(f.out, "  %s %s\n", warnStyle.Render("!"), w)
		}
	}
	if o.SeasonalReset != nil {
		fmt.Fprintf(f.out, "%s season reset: %.1f carried to lifetime (now %.1f)\n",
			dimStyle.Render("~"), o.SeasonalReset.SeasonContribution, o.SeasonalReset.NewLifetimeScore)
	}

	fmt.Fprintf(f.out, "\n%s  %s (rank %d)\n",
		f.scoreStyle(o.Result.Percentage).Render(fmt.Sprintf("%.1f / %.0f", o.Result.TotalScore, o.Result.MaxScore)),
		o.Rank.Name, o.Rank.Level)
	if o.PreviousRank != o.Rank.Name {
		fmt.Fprintf(f.out, "%s %s -> %s\n", goodStyle.Render("▲"), o.PreviousRank, o.Rank.Name)
	}
	if o.NextRank != nil {
		fmt.Fprintf(f.out, "%s %d points to %s\n",
			dimStyle.Render("·"), o.NextRank.PointsNeeded, o.NextRank.Name)
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printCategories(o *pipeline.Outcome) {
	scores := o.Result.Breakdown.CategoryScores()
	for _, name := range types.Categories {
		cs := scores[name]
		bar := f.bar(cs.Percentage)
		label := strings.ReplaceAll(name, "_", " ")
		fmt.Fprintf(f.out, "  %-22s %s %5.1f / %-4.0f %s\n",
			label, bar, cs.Score, cs.MaxScore, dimStyle.Render(cs.Tier))

		if f.verbose {
			for _, m := range cs.Details {
				mark := badStyle.Render("✗")
				if m.Passed {
					mark = goodStyle.Render("✓")
				}
				fmt.Fprintf(f.out, "      %s %s (%.1f/%.0f)\n", mark, m.Name, m.Points, m.MaxPoints)
			}
		}
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printBonuses(o *pipeline.Outcome) {
	b := o.Result.Bonuses
	fmt.Fprintf(f.out, "  Base score      %8.1f / %.0f\n", o.Result.BaseScore, o.Result.MaxBaseScore)
	if b.Streak.IsActive {
		fmt.Fprintf(f.out, "  Streak          %8s x%.2f, +%.0f pts\n",
			fmt.Sprintf("%d day", b.Streak.StreakLength), b.Streak.Multiplier, b.Streak.BonusPoints)
	}
	if b.Combo.ComboActive {
		fmt.Fprintf(f.out, "  Combo           %8s +%.0f pts (%d categories at 80%%)\n",
			b.Combo.TierName, b.Combo.BonusPoints, b.Combo.ExcellentCategories)
	}
	fmt.Fprintf(f.out, "  Time modifiers  %8s x%.2f\n", "", b.Time.CombinedMultiplier)
	if o.StreakAfter.IsActive {
		fmt.Fprintf(f.out, "  %s streak now %d sessions\n", goodStyle.Render("▲"), o.StreakAfter.StreakLength)
	} else if !o.Improved {
		fmt.Fprintln(f.out, dimStyle.Render("  no improvement this run, streak reset"))
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printAchievements(o *pipeline.Outcome) {
	if len(o.NewAchievements) == 0 {
		return
	}
	fmt.Fprintln(f.out, titleStyle.Render("Achievements unlocked"))
	for _, a := range o.NewAchievements {
		fmt.Fprintf(f.out, "  %s %s (+%d pts)\n", goodStyle.Render("★"), a.Name, a.Points)
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printRegression(o *pipeline.Outcome) {
	reg := o.Result.Regression
	if !reg.HasRegressed {
		return
	}
	style := warnStyle
	if reg.Severity == "severe" {
		style = badStyle
	}
	fmt.Fprintf(f.out, "%s performance regression: %s (%d signals)\n",
		style.Render("!"), reg.Severity, reg.SignalCount)
	if o.Result.RegressionAdvice.ShouldAdjust {
		fmt.Fprintf(f.out, "  %s\n", dimStyle.Render(o.Result.RegressionAdvice.Reason))
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printFooter(o *pipeline.Outcome) {
	fmt.Fprintf(f.out, "%s sessions %d, messages %d, avg %.0f tokens/session\n",
		dimStyle.Render("·"), o.Profile.TotalSessions, o.Profile.TotalMessages, o.Profile.AvgTokensPerSession)
}

// bar renders a ten-segment progress bar for a percentage.
func (f *ConsoleFormatter) bar(pct float64) string {
	filled := int(pct / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return f.scoreStyle(pct).Render(bar)
}

func (f *ConsoleFormatter) scoreStyle(pct float64) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	switch {
	case pct >= 75:
		return goodStyle
	case pct >= 40:
		return warnStyle
	default:
		return badStyle
	}
}
