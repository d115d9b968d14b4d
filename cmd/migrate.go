package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tokencraft/internal/migration"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a stored profile to the current schema",
	Long: `Upgrades the profile document to schema 3.0: snapshots the legacy data,
initializes streak and seasonal tracking, and drops removed score
categories. Already-current profiles are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var doc migration.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}

	if !migration.NeedsMigration(doc) {
		fmt.Printf("Profile already at schema %s, nothing to do.\n", migration.VersionCurrent)
		return nil
	}

	engine := migration.NewEngine()
	migrated, err := engine.Migrate(doc)
	if err != nil {
		return err
	}

	result := engine.Validate(migrated)
	report := engine.BuildReport(doc, migrated)

	fmt.Printf("Migration %s -> %s\n", report.SourceVersion, report.TargetVersion)
	for cat, score := range report.RemovedCategories {
		fmt.Printf("  removed category %s (was %.1f, preserved in legacy)\n", cat, score)
	}
	for _, change := range report.SchemaChanges {
		fmt.Printf("  + %s\n", change)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if !result.Valid {
		return fmt.Errorf("migrated profile failed validation: %v", result.Errors)
	}

	if migrateDryRun {
		fmt.Println("Dry run: no changes written.")
		return nil
	}

	out, err := json.MarshalIndent(migrated, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal migrated profile: %w", err)
	}
	if err := os.WriteFile(cfg.ProfilePath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	fmt.Println("Profile migrated.")
	return nil
}
