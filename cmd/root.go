package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootPath     string
	profilePath  string
	quiet        bool
	verbose      bool
	outputFormat string
)

// exitFunc and nowFunc are swapped out in tests.
var (
	exitFunc = os.Exit
	nowFunc  = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "tokencraft",
	Short: "Token-Craft - gamified token usage scoring for Claude Code",
	Long: `Token-Craft scores your Claude Code usage across ten categories,
tracks improvement streaks, combos, and achievements, and ranks you on a
ten-tier progression ladder from Cadet to Galactic Legend.

Running tokencraft with no subcommand performs a full scoring run.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScore(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Claude data directory (defaults to ~/.claude)")
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "", "Profile file path (defaults to ~/.claude/token-craft/user_profile.json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|yaml)")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("profilePath", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

func initConfig() {
	configPaths := []string{".tokencraftrc.json", ".tokencraftrc.yaml", ".tokencraftrc.yml"}
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				os.Exit(1)
			}
			break
		}
	}
}
