// Package cmd contains the regsweep CLI commands.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Build metadata injected at link time via main.
var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "regsweep",
	Short: "Regsweep - Container Registry Cleanup Job",
	Long: `Regsweep enumerates the images and tags of a Scaleway container
registry, deletes the tags that qualify under the configured criteria
(age, name pattern), and optionally removes namespaces left empty.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnvFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before resolving configuration (default ./.env if present)")
}

func loadEnvFile() {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Fatal("failed to load env file", "path", envFile, "error", err)
		}
		return
	}
	// Opportunistic default: a missing ./.env is not an error.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Warn("failed to load .env", "error", err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteCLI records build metadata and runs the CLI.
func ExecuteCLI(version, commit, date string) {
	if version != "" {
		BuildVersion = version
	}
	if commit != "" {
		BuildCommit = commit
	}
	if date != "" {
		BuildDate = date
	}
	cobra.CheckErr(Execute())
}
